package invariant_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/concourse/ond-art-validator/invariant"
)

var _ = Describe("IntervalOrdered", func() {
	It("accepts ordered bounds", func() {
		Expect(invariant.IntervalOrdered(0.1, 0.9)).To(BeTrue())
	})

	It("accepts equal bounds", func() {
		Expect(invariant.IntervalOrdered(0.5, 0.5)).To(BeTrue())
	})

	It("accepts low exceeding high within tolerance", func() {
		Expect(invariant.IntervalOrdered(0.5+5e-13, 0.5)).To(BeTrue())
	})

	It("rejects low exceeding high beyond tolerance", func() {
		Expect(invariant.IntervalOrdered(0.95, 0.92)).To(BeFalse())
		Expect(invariant.IntervalOrdered(0.5+1e-11, 0.5)).To(BeFalse())
	})
})

var _ = Describe("WithinInterval", func() {
	It("accepts a value strictly inside", func() {
		Expect(invariant.WithinInterval(0.5, 0.1, 0.9)).To(BeTrue())
	})

	It("accepts values on the bounds", func() {
		Expect(invariant.WithinInterval(0.1, 0.1, 0.9)).To(BeTrue())
		Expect(invariant.WithinInterval(0.9, 0.1, 0.9)).To(BeTrue())
	})

	It("grows the interval by tolerance on both sides", func() {
		Expect(invariant.WithinInterval(0.1-5e-13, 0.1, 0.9)).To(BeTrue())
		Expect(invariant.WithinInterval(0.9+5e-13, 0.1, 0.9)).To(BeTrue())
	})

	It("rejects values beyond the grown bounds", func() {
		Expect(invariant.WithinInterval(0.1-1e-11, 0.1, 0.9)).To(BeFalse())
		Expect(invariant.WithinInterval(0.9+1e-11, 0.1, 0.9)).To(BeFalse())
	})
})
