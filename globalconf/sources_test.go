package globalconf_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.etcd.io/bbolt"

	"github.com/msaldanha/timecache/globalconf"
)

var _ = Describe("Sources", func() {
	var dir string
	ctx := context.Background()

	BeforeEach(func() {
		var er error
		dir, er = os.MkdirTemp("", "globalconf")
		Expect(er).To(BeNil())
	})

	AfterEach(func() {
		_ = os.RemoveAll(dir)
	})

	Context("File", func() {
		It("Should load a TOML file", func() {
			path := filepath.Join(dir, "conf.toml")
			content := "timeout = 30\n\n[instance]\nidentifier = \"EE\"\n"
			Expect(os.WriteFile(path, []byte(content), 0600)).To(Succeed())

			src, er := globalconf.NewFileSource(path)
			Expect(er).To(BeNil())
			Expect(src.ID()).To(Equal("file:" + path))

			values, er := src.Load(ctx)
			Expect(er).To(BeNil())
			Expect(values).To(HaveKeyWithValue("timeout", int64(30)))
			Expect(values).To(HaveKeyWithValue("instance", map[string]interface{}{"identifier": "EE"}))
		})
		It("Should fail with an empty path", func() {
			_, er := globalconf.NewFileSource("")
			Expect(er).To(MatchError(globalconf.ErrEmptySourcePath))
		})
		It("Should fail for a missing file", func() {
			src, er := globalconf.NewFileSource(filepath.Join(dir, "missing.toml"))
			Expect(er).To(BeNil())
			_, er = src.Load(ctx)
			Expect(er).To(MatchError(os.ErrNotExist))
		})
	})

	Context("Bolt", func() {
		It("Should load stored parameters", func() {
			path := filepath.Join(dir, "conf.db")
			src, er := globalconf.OpenBoltSource(path, "globalconf")
			Expect(er).To(BeNil())
			defer src.Close()

			Expect(src.ID()).To(Equal("bolt:" + path + "#globalconf"))
			Expect(src.Put("instance", "EE")).To(Succeed())
			Expect(src.Put("timeout", "30")).To(Succeed())

			values, er := src.Load(ctx)
			Expect(er).To(BeNil())
			Expect(values).To(Equal(map[string]interface{}{
				"instance": "EE",
				"timeout":  "30",
			}))
		})
		It("Should use an already open database", func() {
			db, er := bbolt.Open(filepath.Join(dir, "shared.db"), 0600, nil)
			Expect(er).To(BeNil())
			defer db.Close()

			src, er := globalconf.NewBoltSource(db, "globalconf")
			Expect(er).To(BeNil())
			Expect(src.Close()).To(Succeed())

			values, er := src.Load(ctx)
			Expect(er).To(BeNil())
			Expect(values).To(BeEmpty())
		})
		It("Should fail with an empty bucket name", func() {
			_, er := globalconf.OpenBoltSource(filepath.Join(dir, "conf.db"), "")
			Expect(er).To(MatchError(globalconf.ErrEmptyBucketName))
		})
		It("Should give up when the database stays locked", func() {
			path := filepath.Join(dir, "locked.db")
			holder, er := globalconf.OpenBoltSource(path, "globalconf")
			Expect(er).To(BeNil())
			defer holder.Close()

			_, er = globalconf.OpenBoltSource(path, "globalconf",
				globalconf.WithOpenTimeout(10*time.Millisecond),
				globalconf.WithOpenRetries(1))
			Expect(er).To(MatchError(bbolt.ErrTimeout))
		})
	})
})
