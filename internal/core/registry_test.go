package core

import (
	"errors"
	"sync"
	"testing"
)

func TestRegistryAdmitRejectsInvalidIdentity(t *testing.T) {
	r := NewRegistry(0)

	if _, err := r.Admit(0, "nobody"); !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, got %v", err)
	}
	if _, err := r.Admit(-5, "nobody"); !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, got %v", err)
	}
	if r.Count() != 0 {
		t.Fatalf("rejected admissions must not register connections, count=%d", r.Count())
	}
}

func TestRegistryJoinLeaveNetEffect(t *testing.T) {
	r := NewRegistry(0)
	alice := mustAdmit(t, r, 1, "alice")

	// Freshly admitted connection belongs to no room.
	if got := r.MembersOf("r1"); len(got) != 0 {
		t.Fatalf("expected empty room, got %d members", len(got))
	}

	// Double join then single leave removes membership.
	r.Join(alice, "r1")
	r.Join(alice, "r1")
	r.Leave(alice, "r1")

	if got := r.MembersOf("r1"); len(got) != 0 {
		t.Fatalf("idempotent join must need only one leave, got %d members", len(got))
	}

	// Leave of a never-joined room is a no-op.
	r.Leave(alice, "ghost")

	r.Join(alice, "r1")
	members := r.MembersOf("r1")
	if len(members) != 1 || members[0] != alice {
		t.Fatalf("expected alice in r1, got %v", members)
	}
}

func TestRegistryMembersOfScopesByRoom(t *testing.T) {
	r := NewRegistry(0)
	alice := mustAdmit(t, r, 1, "alice")
	bob := mustAdmit(t, r, 2, "bob")
	carol := mustAdmit(t, r, 3, "carol")

	r.Join(alice, "r1")
	r.Join(bob, "r1")
	r.Join(carol, "r2")

	if got := r.MembersOf("r1"); len(got) != 2 {
		t.Fatalf("expected 2 members in r1, got %d", len(got))
	}
	if got := r.MembersOf("r2"); len(got) != 1 || got[0] != carol {
		t.Fatalf("expected only carol in r2, got %v", got)
	}
	if got := r.MembersOf("empty"); len(got) != 0 {
		t.Fatalf("unknown room must be empty, got %v", got)
	}
}

func TestRegistryRemoveClearsAllMemberships(t *testing.T) {
	r := NewRegistry(0)
	alice := mustAdmit(t, r, 1, "alice")
	r.Join(alice, "r1")
	r.Join(alice, "r2")

	r.Remove(alice)

	if got := r.MembersOf("r1"); len(got) != 0 {
		t.Fatalf("r1 still has members after remove: %v", got)
	}
	if got := r.MembersOf("r2"); len(got) != 0 {
		t.Fatalf("r2 still has members after remove: %v", got)
	}
	if r.Count() != 0 {
		t.Fatalf("expected empty registry, count=%d", r.Count())
	}

	// Removed handles are tolerated everywhere.
	r.Remove(alice)
	r.Join(alice, "r1")
	r.Leave(alice, "r1")
	r.SetDisplayName(alice, "ghost")

	if got := r.MembersOf("r1"); len(got) != 0 {
		t.Fatalf("operations on removed handle must be no-ops, got %v", got)
	}
}

func TestRegistryDisplayName(t *testing.T) {
	r := NewRegistry(0)
	alice := mustAdmit(t, r, 1, "alice")

	if got := r.DisplayName(alice); got != "alice" {
		t.Fatalf("expected username fallback, got %q", got)
	}

	r.SetDisplayName(alice, "Alice W")
	r.SetDisplayName(alice, "Alice")
	if got := r.DisplayName(alice); got != "Alice" {
		t.Fatalf("expected last write to win, got %q", got)
	}
}

func TestRegistrySnapshotStableUnderMutation(t *testing.T) {
	r := NewRegistry(0)
	alice := mustAdmit(t, r, 1, "alice")
	bob := mustAdmit(t, r, 2, "bob")
	r.Join(alice, "r1")
	r.Join(bob, "r1")

	snapshot := r.MembersOf("r1")

	r.Leave(bob, "r1")
	carol := mustAdmit(t, r, 3, "carol")
	r.Join(carol, "r1")

	if len(snapshot) != 2 {
		t.Fatalf("snapshot mutated after membership changes: %v", snapshot)
	}
}

func TestRegistryConcurrentJoinLeave(t *testing.T) {
	r := NewRegistry(0)

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func(id int64) {
			defer wg.Done()
			c, err := r.Admit(id+1, "user")
			if err != nil {
				t.Errorf("admit: %v", err)
				return
			}
			for j := 0; j < 100; j++ {
				r.Join(c, "shared")
				for _, m := range r.MembersOf("shared") {
					_ = r.DisplayName(m)
				}
				r.Leave(c, "shared")
			}
			r.Remove(c)
		}(int64(i))
	}

	wg.Wait()

	if got := r.MembersOf("shared"); len(got) != 0 {
		t.Fatalf("expected empty room after all workers left, got %d", len(got))
	}
	if r.Count() != 0 {
		t.Fatalf("expected empty registry, count=%d", r.Count())
	}
}
