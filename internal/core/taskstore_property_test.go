package core

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/pocket-todo/pkg/models"
	"pgregory.net/rapid"
)

// genTitle draws a title that passes the rich list's rules.
func genTitle(rt *rapid.T, label string) string {
	return rapid.StringMatching(`[A-Za-z][A-Za-z0-9 ]{2,20}[A-Za-z0-9]`).Draw(rt, label)
}

func genStore(rt *rapid.T) TaskStore {
	if rapid.Bool().Draw(rt, "rich") {
		return NewTaskStore(newFakeKV(), RichCapabilities())
	}
	return NewTaskStore(newFakeKV(), SimpleCapabilities())
}

func seedTasks(rt *rapid.T, store TaskStore) {
	n := rapid.IntRange(0, 8).Draw(rt, "seed")
	for i := 0; i < n; i++ {
		if _, err := store.Create(Draft{Title: genTitle(rt, "seedTitle"), Subject: "Seed"}); err != nil {
			rt.Fatalf("seeding: %v", err)
		}
	}
	for _, task := range store.Tasks() {
		if rapid.Bool().Draw(rt, "seedDone") {
			store.Toggle(task.ID)
		}
	}
}

// A valid create appends exactly one incomplete task at the end and keeps
// the existing tasks in order.
func TestProperty_CreateAppends(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := genStore(rt)
		seedTasks(rt, store)
		before := store.Tasks()

		title := genTitle(rt, "title")
		task, err := store.Create(Draft{Title: title, Subject: "Subject"})
		if err != nil {
			rt.Fatalf("valid create failed: %v", err)
		}

		after := store.Tasks()
		if len(after) != len(before)+1 {
			rt.Fatalf("expected %d tasks, got %d", len(before)+1, len(after))
		}
		for i := range before {
			if after[i] != before[i] {
				rt.Fatalf("task %d changed: %+v -> %+v", i, before[i], after[i])
			}
		}
		last := after[len(after)-1]
		if last != task || last.Completed || last.Title != strings.TrimSpace(title) {
			rt.Fatalf("unexpected appended task %+v", last)
		}
		for _, t := range before {
			if t.ID == task.ID {
				rt.Fatalf("new ID %s collides with an existing task", task.ID)
			}
		}
	})
}

// An invalid create leaves the collection untouched.
func TestProperty_InvalidCreateUnchanged(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := NewTaskStore(newFakeKV(), RichCapabilities())
		seedTasks(rt, store)
		before := store.Tasks()

		draft := rapid.SampledFrom([]Draft{
			{Title: "", Subject: "x"},
			{Title: "valid title", Subject: "  "},
			{Title: rapid.StringMatching(`[a-z]{0,2}`).Draw(rt, "short"), Subject: "x"},
		}).Draw(rt, "draft")

		if _, err := store.Create(draft); err == nil {
			rt.Fatalf("expected %+v to be rejected", draft)
		}
		after := store.Tasks()
		if len(after) != len(before) {
			rt.Fatalf("collection changed from %d to %d tasks", len(before), len(after))
		}
		for i := range before {
			if after[i] != before[i] {
				rt.Fatalf("task %d changed", i)
			}
		}
	})
}

// Toggling twice restores the original collection.
func TestProperty_ToggleInvolution(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := genStore(rt)
		seedTasks(rt, store)
		before := store.Tasks()
		if len(before) == 0 {
			return
		}
		target := rapid.SampledFrom(before).Draw(rt, "target")

		once, ok := store.Toggle(target.ID)
		if !ok || once.Completed == target.Completed {
			rt.Fatalf("toggle did not flip completion of %s", target.ID)
		}
		store.Toggle(target.ID)

		after := store.Tasks()
		for i := range before {
			if after[i] != before[i] {
				rt.Fatalf("task %d differs after double toggle: %+v vs %+v", i, before[i], after[i])
			}
		}
	})
}

// Delete removes exactly the matching task and preserves the order of the
// rest; an unknown ID is a no-op.
func TestProperty_DeleteExactlyOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := genStore(rt)
		seedTasks(rt, store)
		before := store.Tasks()

		id := "no-such-task"
		if len(before) > 0 && rapid.Bool().Draw(rt, "existing") {
			id = rapid.SampledFrom(before).Draw(rt, "target").ID
		}

		deleted := store.Delete(id)
		after := store.Tasks()

		var want []models.Task
		for _, t := range before {
			if t.ID != id {
				want = append(want, t)
			}
		}
		if deleted != (len(want) == len(before)-1) {
			rt.Fatalf("Delete reported %v for %s", deleted, id)
		}
		if len(after) != len(want) {
			rt.Fatalf("expected %d tasks, got %d", len(want), len(after))
		}
		for i := range want {
			if after[i] != want[i] {
				rt.Fatalf("task %d = %+v, want %+v", i, after[i], want[i])
			}
		}
	})
}

// The persisted snapshot decodes to exactly the in-memory collection.
func TestProperty_SnapshotRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		kv := newFakeKV()
		caps := RichCapabilities()
		if rapid.Bool().Draw(rt, "simple") {
			caps = SimpleCapabilities()
		}
		store := NewTaskStore(kv, caps)
		seedTasks(rt, store)
		if len(store.Tasks()) == 0 {
			if _, err := store.Create(Draft{Title: "first task", Subject: "x"}); err != nil {
				rt.Fatal(err)
			}
		}

		decoded, err := DecodeSnapshot(kv.values[SnapshotKey])
		if err != nil {
			rt.Fatalf("decoding persisted snapshot: %v", err)
		}
		mem := store.Tasks()
		if len(decoded) != len(mem) {
			rt.Fatalf("decoded %d tasks, memory has %d", len(decoded), len(mem))
		}
		for i := range mem {
			if decoded[i] != mem[i] {
				rt.Fatalf("task %d: decoded %+v, memory %+v", i, decoded[i], mem[i])
			}
		}

		reloaded := NewTaskStore(kv, caps)
		if err := reloaded.Load(); err != nil {
			rt.Fatalf("reload: %v", err)
		}
		if len(reloaded.Tasks()) != len(mem) {
			rt.Fatal("reloaded store differs from the saved one")
		}
	})
}

// Completed and incomplete views partition the full list in order.
func TestProperty_FilterPartition(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := NewTaskStore(newFakeKV(), RichCapabilities())
		seedTasks(rt, store)

		all := store.Filter(models.FilterAll)
		completed := store.Filter(models.FilterCompleted)
		incomplete := store.Filter(models.FilterIncomplete)

		if len(completed)+len(incomplete) != len(all) {
			rt.Fatalf("%d completed + %d incomplete != %d", len(completed), len(incomplete), len(all))
		}
		ci, ii := 0, 0
		for _, t := range all {
			if t.Completed {
				if completed[ci] != t {
					rt.Fatalf("completed view out of order at %d", ci)
				}
				ci++
			} else {
				if incomplete[ii] != t {
					rt.Fatalf("incomplete view out of order at %d", ii)
				}
				ii++
			}
		}
	})
}

// Cancelling a pending confirmation never mutates the store.
func TestProperty_ConfirmCancelNeverMutates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		kv := newFakeKV()
		store := NewTaskStore(kv, RichCapabilities())
		seedTasks(rt, store)
		before := store.Tasks()
		if len(before) == 0 {
			return
		}
		writes := kv.setCall

		target := rapid.SampledFrom(before).Draw(rt, "target")
		kind := rapid.SampledFrom([]ActionKind{ActionDelete, ActionEdit, ActionToggle}).Draw(rt, "kind")
		action := PendingAction{Kind: kind, TaskID: target.ID}
		if kind == ActionEdit {
			action.Draft = Draft{Title: genTitle(rt, "newTitle"), Subject: "Changed"}
		}

		c := NewConfirmer(store)
		outcome, err := c.Request(action)
		if err != nil || outcome != OutcomePending {
			rt.Fatalf("Request = %v, %v; want pending", outcome, err)
		}
		if c.Cancel() != OutcomeCancelled {
			rt.Fatal("Cancel did not report cancelled")
		}

		after := store.Tasks()
		for i := range before {
			if after[i] != before[i] {
				rt.Fatalf("task %d changed after cancel", i)
			}
		}
		if kv.setCall != writes {
			rt.Fatal("cancel wrote storage")
		}
	})
}

// IDs are unique and strictly increasing no matter how the clock moves.
func TestProperty_TaskIDsStrictlyIncrease(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ticks := rapid.SliceOfN(rapid.Int64Range(1_600_000_000_000, 1_600_000_000_050), 1, 50).Draw(rt, "ticks")
		i := 0
		gen := NewTaskIDGenerator(func() time.Time {
			ms := ticks[i%len(ticks)]
			i++
			return time.UnixMilli(ms)
		})

		var last int64
		for n := 0; n < len(ticks); n++ {
			id := gen.GenerateTaskID()
			v, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				rt.Fatalf("ID %q is not a decimal timestamp", id)
			}
			if v <= last {
				rt.Fatalf("ID %d not greater than previous %d", v, last)
			}
			last = v
		}
	})
}

// The summary agrees with the filtered views and with the priority of every
// task.
func TestProperty_SummaryMatchesFilters(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := NewTaskStore(newFakeKV(), RichCapabilities())
		seedTasks(rt, store)
		for _, task := range store.Tasks() {
			p := rapid.SampledFrom(models.Priorities).Draw(rt, "priority")
			if _, _, err := store.Update(task.ID, Draft{Title: task.Title, Subject: task.Subject, Priority: p}); err != nil {
				rt.Fatalf("update: %v", err)
			}
		}

		sum := store.Summary()
		if sum.Total != len(store.Filter(models.FilterAll)) {
			rt.Fatalf("Total %d != %d", sum.Total, len(store.Tasks()))
		}
		if sum.Completed != len(store.Filter(models.FilterCompleted)) || sum.Open != len(store.Filter(models.FilterIncomplete)) {
			rt.Fatalf("summary %+v disagrees with the filtered views", sum)
		}
		byPriority := 0
		for _, n := range sum.ByPriority {
			byPriority += n
		}
		if byPriority != sum.Total {
			rt.Fatalf("priority counts add up to %d, want %d", byPriority, sum.Total)
		}
	})
}
