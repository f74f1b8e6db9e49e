package sim

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TimedQueue", func() {
	var queue *TimedQueue

	BeforeEach(func() {
		var err error
		queue, err = NewStrictTimedQueue([]string{"a", "b", "c"})
		Expect(err).ToNot(HaveOccurred())
	})

	It("should start empty at time 0", func() {
		Expect(queue.CurrentTime()).To(Equal(VTimeInTick(0)))
		Expect(queue.NextTime()).To(Equal(TimeUnset))
		Expect(queue.Len()).To(Equal(0))
		Expect(queue.IsEmpty()).To(BeTrue())
	})

	It("should return nil on an empty queue without moving the cursor", func() {
		Expect(queue.Next()).To(BeNil())
		Expect(queue.Next()).To(BeNil())
		Expect(queue.CurrentTime()).To(Equal(VTimeInTick(0)))
		Expect(queue.Len()).To(Equal(0))
	})

	Describe("time resolution", func() {
		It("should default to currentTime+1", func() {
			evt := NewEvent("a")
			Expect(queue.Add(evt)).To(Succeed())
			Expect(evt.Time()).To(Equal(VTimeInTick(1)))
		})

		It("should use the event's own time when set", func() {
			evt := NewEvent("a")
			evt.SetTime(7)
			Expect(queue.Add(evt)).To(Succeed())
			Expect(evt.Time()).To(Equal(VTimeInTick(7)))
			Expect(queue.NextTime()).To(Equal(VTimeInTick(7)))
		})

		It("should let an explicit time win over the event's own", func() {
			evt := NewEvent("a")
			evt.SetTime(7)
			Expect(queue.AddAt(evt, 3)).To(Succeed())
			Expect(evt.Time()).To(Equal(VTimeInTick(3)))
		})
	})

	It("should order by time, then priority, then insertion", func() {
		b := NewEvent("b")
		a := NewEvent("a")
		Expect(queue.Add(b)).To(Succeed())
		Expect(queue.Add(a)).To(Succeed())

		c := NewEvent("c")
		Expect(queue.AddAt(c, 3)).To(Succeed())
		Expect(queue.NextTime()).To(Equal(VTimeInTick(1)))

		evt := queue.Next()
		Expect(evt.ID()).To(Equal(a.ID()))
		Expect(evt.Time()).To(Equal(VTimeInTick(1)))

		evt = queue.Next()
		Expect(evt.ID()).To(Equal(b.ID()))
		Expect(queue.NextTime()).To(Equal(VTimeInTick(3)))

		evt = queue.Next()
		Expect(evt.ID()).To(Equal(c.ID()))
		Expect(evt.Time()).To(Equal(VTimeInTick(3)))
		Expect(queue.NextTime()).To(Equal(TimeUnset))
		Expect(queue.CurrentTime()).To(Equal(VTimeInTick(3)))
	})

	It("should keep nextTime at the served tick while it holds events", func() {
		Expect(queue.AddAt(NewEvent("a"), 2)).To(Succeed())
		Expect(queue.AddAt(NewEvent("b"), 2)).To(Succeed())
		Expect(queue.AddAt(NewEvent("c"), 5)).To(Succeed())

		queue.Next()
		Expect(queue.NextTime()).To(Equal(VTimeInTick(2)))

		queue.Next()
		Expect(queue.NextTime()).To(Equal(VTimeInTick(5)))
	})

	It("should skip unoccupied ticks", func() {
		Expect(queue.AddAt(NewEvent("a"), 1000)).To(Succeed())

		evt := queue.Next()
		Expect(evt.Time()).To(Equal(VTimeInTick(1000)))
		Expect(queue.CurrentTime()).To(Equal(VTimeInTick(1000)))
	})

	It("should account length across adds and nexts", func() {
		for i := 0; i < 10; i++ {
			Expect(queue.AddAt(NewEvent("a"), VTimeInTick(i+1))).To(Succeed())
		}
		Expect(queue.Len()).To(Equal(10))

		for i := 0; i < 4; i++ {
			Expect(queue.Next()).ToNot(BeNil())
		}
		Expect(queue.Len()).To(Equal(6))
		Expect(queue.IsEmpty()).To(BeFalse())

		for queue.Next() != nil {
		}
		Expect(queue.Len()).To(Equal(0))
		Expect(queue.NextTime()).To(Equal(TimeUnset))
	})

	It("should drain a mixed workload in one deterministic order", func() {
		names := []string{"c", "e", "a", "e", "b", "a"}
		ticks := []VTimeInTick{2, 1, 2, 2, 1, 1}
		for i, name := range names {
			Expect(queue.AddAt(NewEvent(name), ticks[i])).To(Succeed())
		}

		drained := []string{}
		for evt := queue.Next(); evt != nil; evt = queue.Next() {
			drained = append(drained,
				fmt.Sprintf("%s@%d", evt.Name(), evt.Time()))
		}

		Expect(drained).To(Equal([]string{
			"a@1", "b@1", "e@1", "a@2", "c@2", "e@2",
		}))
	})

	Describe("strict validation", func() {
		It("should reject a nameless event", func() {
			err := queue.Add(NewEvent(""))

			var vErr *ValidationError
			Expect(errors.As(err, &vErr)).To(BeTrue())
			Expect(vErr.Msg).To(Equal("Events must have a name"))
			Expect(queue.Len()).To(Equal(0))
		})

		It("should reject scheduling at or before the current time", func() {
			err := queue.AddAt(NewEvent("a"), 0)
			var vErr *ValidationError
			Expect(errors.As(err, &vErr)).To(BeTrue())

			Expect(queue.AddAt(NewEvent("a"), 2)).To(Succeed())
			queue.Next()

			err = queue.AddAt(NewEvent("a"), 2)
			Expect(errors.As(err, &vErr)).To(BeTrue())
			Expect(queue.Len()).To(Equal(0))
		})

		It("should refuse pattern reconfiguration once set", func() {
			err := queue.SetPriorities([]string{"x"})

			var vErr *ValidationError
			Expect(errors.As(err, &vErr)).To(BeTrue())
			Expect(vErr.Msg).To(
				Equal("Updating priority list not currently supported"))
		})
	})

	It("should accept past times in lenient mode", func() {
		queue, err := NewTimedQueue(nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(queue.AddAt(NewEvent("late"), 5)).To(Succeed())
		Expect(queue.Next().Name()).To(Equal("late"))
		Expect(queue.CurrentTime()).To(Equal(VTimeInTick(5)))

		Expect(queue.AddAt(NewEvent("later"), 2)).To(Succeed())
		evt := queue.Next()
		Expect(evt.Name()).To(Equal("later"))
		Expect(queue.CurrentTime()).To(Equal(VTimeInTick(5)),
			"the cursor never decreases")
	})
})
