package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BucketQueue", func() {
	var queue *BucketQueue

	BeforeEach(func() {
		var err error
		queue, err = NewStrictBucketQueue([]string{"a", "b", "c"})
		Expect(err).ToNot(HaveOccurred())
	})

	It("should drain by pattern priority, wildcard last", func() {
		for _, name := range []string{"e", "c", "a", "b"} {
			Expect(queue.Add(NewEvent(name))).To(Succeed())
		}

		drained := []string{}
		for evt := queue.Next(); evt != nil; evt = queue.Next() {
			drained = append(drained, evt.Name())
		}

		Expect(drained).To(Equal([]string{"a", "b", "c", "e"}))
	})

	It("should preserve insertion order within one bucket", func() {
		first := NewEvent("a")
		second := NewEvent("a")
		third := NewEvent("a")

		Expect(queue.Add(first)).To(Succeed())
		Expect(queue.Add(second)).To(Succeed())
		Expect(queue.Add(third)).To(Succeed())

		Expect(queue.Next().ID()).To(Equal(first.ID()))
		Expect(queue.Next().ID()).To(Equal(second.ID()))
		Expect(queue.Next().ID()).To(Equal(third.ID()))
	})

	It("should match patterns as full regular expressions", func() {
		queue, err := NewStrictBucketQueue([]string{"req.*", "re"})
		Expect(err).ToNot(HaveOccurred())

		request := NewEvent("request")
		re := NewEvent("re")
		other := NewEvent("reply")

		Expect(queue.Add(other)).To(Succeed())
		Expect(queue.Add(re)).To(Succeed())
		Expect(queue.Add(request)).To(Succeed())

		Expect(queue.Next().ID()).To(Equal(request.ID()))
		Expect(queue.Next().ID()).To(Equal(re.ID()))
		Expect(queue.Next().ID()).To(Equal(other.ID()))
	})

	It("should return nil on an empty queue, repeatedly", func() {
		Expect(queue.Next()).To(BeNil())
		Expect(queue.Next()).To(BeNil())
		Expect(queue.Len()).To(Equal(0))
		Expect(queue.IsEmpty()).To(BeTrue())
	})

	It("should track length", func() {
		Expect(queue.Add(NewEvent("a"))).To(Succeed())
		Expect(queue.Add(NewEvent("z"))).To(Succeed())
		Expect(queue.Len()).To(Equal(2))
		Expect(queue.IsEmpty()).To(BeFalse())

		queue.Next()
		Expect(queue.Len()).To(Equal(1))

		queue.Next()
		Expect(queue.IsEmpty()).To(BeTrue())
	})

	It("should append the wildcard bucket when absent", func() {
		Expect(queue.Patterns()).To(Equal([]string{"a", "b", "c", "*"}))
	})

	It("should keep a caller-supplied wildcard where it was declared", func() {
		queue, err := NewStrictBucketQueue([]string{"a", "*"})
		Expect(err).ToNot(HaveOccurred())
		Expect(queue.Patterns()).To(Equal([]string{"a", "*"}))
	})

	It("should reject a nameless event in strict mode", func() {
		err := queue.Add(NewEvent(""))

		var vErr *ValidationError
		Expect(errors.As(err, &vErr)).To(BeTrue())
		Expect(vErr.Msg).To(Equal("Events must have a name"))
		Expect(queue.Len()).To(Equal(0))
	})

	It("should accept a nameless event in lenient mode", func() {
		queue, err := NewBucketQueue([]string{"a"})
		Expect(err).ToNot(HaveOccurred())

		Expect(queue.Add(NewEvent(""))).To(Succeed())
		Expect(queue.Len()).To(Equal(1))
	})

	It("should reject an invalid pattern at construction", func() {
		_, err := NewStrictBucketQueue([]string{"("})

		var vErr *ValidationError
		Expect(errors.As(err, &vErr)).To(BeTrue())
	})

	Describe("SetPriorities", func() {
		It("should refuse reconfiguration in strict mode", func() {
			err := queue.SetPriorities([]string{"x"})

			var vErr *ValidationError
			Expect(errors.As(err, &vErr)).To(BeTrue())
			Expect(vErr.Msg).To(
				Equal("Updating priority list not currently supported"))
			Expect(queue.Patterns()).To(Equal([]string{"a", "b", "c", "*"}))
		})

		It("should install patterns on a queue built without them", func() {
			queue, err := NewStrictBucketQueue(nil)
			Expect(err).ToNot(HaveOccurred())

			Expect(queue.SetPriorities([]string{"a", "b"})).To(Succeed())
			Expect(queue.Patterns()).To(Equal([]string{"a", "b", "*"}))

			err = queue.SetPriorities([]string{"c"})
			var vErr *ValidationError
			Expect(errors.As(err, &vErr)).To(BeTrue())
		})

		It("should re-bucket events added before the patterns", func() {
			queue, err := NewStrictBucketQueue(nil)
			Expect(err).ToNot(HaveOccurred())

			b := NewEvent("b")
			a := NewEvent("a")
			Expect(queue.Add(b)).To(Succeed())
			Expect(queue.Add(a)).To(Succeed())

			Expect(queue.SetPriorities([]string{"a", "b"})).To(Succeed())

			Expect(queue.Next().ID()).To(Equal(a.ID()))
			Expect(queue.Next().ID()).To(Equal(b.ID()))
		})

		It("should ignore reconfiguration in lenient mode", func() {
			queue, err := NewBucketQueue([]string{"a"})
			Expect(err).ToNot(HaveOccurred())

			Expect(queue.SetPriorities([]string{"x"})).To(Succeed())
			Expect(queue.Patterns()).To(Equal([]string{"a", "*"}))
		})
	})
})
