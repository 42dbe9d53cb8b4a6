package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/gutscore/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When a record key is new", func() {
			seen := d.SeenAndRecord(ctx, dedupe.Key("bowel", "u1", "r-1"))

			Convey("Then it is recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same record is ingested twice", func() {
			d.SeenAndRecord(ctx, dedupe.Key("bowel", "u1", "r-1"))
			seen := d.SeenAndRecord(ctx, dedupe.Key("bowel", "u1", "r-1"))

			Convey("Then the second one is reported as seen", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When two kinds share an ID", func() {
			So(d.SeenAndRecord(ctx, dedupe.Key("bowel", "u1", "x")), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, dedupe.Key("symptom", "u1", "x")), ShouldBeFalse)

			Convey("Then both are kept", func() {
				So(d.Size(), ShouldEqual, 2)
			})
		})

		Convey("When two users share a record ID", func() {
			So(d.SeenAndRecord(ctx, dedupe.Key("bowel", "u1", "b1")), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, dedupe.Key("bowel", "u2", "b1")), ShouldBeFalse)

			Convey("Then each user keeps its own record", func() {
				So(d.Size(), ShouldEqual, 2)
			})
		})

		Convey("When a key is unrecorded", func() {
			d.SeenAndRecord(ctx, "k")
			d.Unrecord(ctx, "k")
			d.Unrecord(ctx, "missing")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "k"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

		Convey("When it is at capacity", func() {
			for i := 0; i < 3; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("k-%d", i))
			}
			d.SeenAndRecord(ctx, "k-3")

			Convey("Then the oldest key is evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "k-3"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "k-2"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "k-0"), ShouldBeFalse)
			})
		})

		Convey("When a key was unrecorded before its slot is reused", func() {
			d.SeenAndRecord(ctx, "a")
			d.SeenAndRecord(ctx, "b")
			d.Unrecord(ctx, "a")
			d.SeenAndRecord(ctx, "c")
			d.SeenAndRecord(ctx, "d")

			Convey("Then the size stays consistent", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "b"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := 0; i < 1000; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("k-%d", i))
		}

		Convey("Then nothing is evicted", func() {
			So(d.Size(), ShouldEqual, 1000)
			So(d.SeenAndRecord(ctx, "k-0"), ShouldBeTrue)
		})
	})
}

func TestInMemoryDeduperConcurrency(t *testing.T) {
	Convey("Given concurrent ingest of overlapping keys", t, func() {
		d := dedupe.NewInMemoryDeduper()
		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			fresh int
		)
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					if !d.SeenAndRecord(context.Background(), fmt.Sprintf("k-%d", i)) {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then every key is recorded exactly once", func() {
			So(fresh, ShouldEqual, 100)
			So(d.Size(), ShouldEqual, 100)
		})
	})
}
