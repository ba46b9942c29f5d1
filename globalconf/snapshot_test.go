package globalconf_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/msaldanha/timecache/globalconf"
)

var _ = Describe("Snapshot", func() {
	snap := &globalconf.Snapshot{
		Values: map[string]interface{}{
			"flat.key": "flat",
			"a": map[string]interface{}{
				"b": map[string]interface{}{
					"c": "deep",
				},
			},
			"scalar": "value",
		},
	}

	It("Should prefer an exact key", func() {
		v, found := snap.Get("flat.key")
		Expect(found).To(BeTrue())
		Expect(v).To(Equal("flat"))
	})
	It("Should walk nested tables", func() {
		v, found := snap.Get("a.b.c")
		Expect(found).To(BeTrue())
		Expect(v).To(Equal("deep"))
	})
	It("Should NOT descend into scalars", func() {
		_, found := snap.Get("scalar.x")
		Expect(found).To(BeFalse())
	})
	It("Should NOT find a missing key", func() {
		_, found := snap.Get("a.x")
		Expect(found).To(BeFalse())
	})
})
