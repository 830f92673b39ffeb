package latticescan

import "testing"

func TestInternReturnsSameInstanceForSameKey(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	a, err := InternName(ctx, "x")
	if err != nil {
		t.Fatalf("InternName: %v", err)
	}
	b, err := InternName(ctx, "x")
	if err != nil {
		t.Fatalf("InternName: %v", err)
	}
	if a != b {
		t.Fatalf("Intern returned distinct instances for the same name")
	}
}

func TestInternDistinguishesUserPayload(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	type tag struct{ n int }
	u1, u2 := &tag{1}, &tag{2}

	a, err := Intern(ctx, "x", true, u1)
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	b, err := Intern(ctx, "x", true, u2)
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if a == b {
		t.Fatalf("Intern conflated distinct user payloads under the same name")
	}
}

func TestCopyIncrementsRefcount(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	id, err := InternName(ctx, "x")
	if err != nil {
		t.Fatalf("InternName: %v", err)
	}
	id.Copy()
	if err := id.Free(); err != nil {
		t.Fatalf("Free (first): %v", err)
	}
	if _, ok := ctx.registry.entries[id.key()]; !ok {
		t.Fatalf("identifier removed from table before its refcount reached zero")
	}
	if err := id.Free(); err != nil {
		t.Fatalf("Free (second): %v", err)
	}
	if _, ok := ctx.registry.entries[id.key()]; ok {
		t.Fatalf("identifier still present in table after its last reference was freed")
	}
}

func TestFreeRunsFinalizerOnce(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	calls := 0
	id, err := Intern(ctx, "", false, 42)
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	id.SetFinalizer(func(user any) {
		calls++
		if user != 42 {
			t.Errorf("finalizer saw user = %v, want 42", user)
		}
	})
	if err := id.Free(); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if calls != 1 {
		t.Fatalf("finalizer ran %d times, want 1", calls)
	}
}

func TestFreeDoubleFreeReportsNotFound(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	id, err := InternName(ctx, "x")
	if err != nil {
		t.Fatalf("InternName: %v", err)
	}
	if err := id.Free(); err != nil {
		t.Fatalf("Free (first): %v", err)
	}
	err = id.Free()
	if err == nil {
		t.Fatalf("expected an error on double free")
	}
	if !IsKind(err, KindNotFound) {
		t.Fatalf("err kind = %v, want KindNotFound", err)
	}
}

func TestNoneIsInert(t *testing.T) {
	if got := None.Copy(); got != None {
		t.Fatalf("None.Copy() = %v, want None", got)
	}
	if err := None.Free(); err != nil {
		t.Fatalf("None.Free() = %v, want nil", err)
	}
}

func TestStringIncludesUserAddressOnlyWhenPresent(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	plain, err := InternName(ctx, "x")
	if err != nil {
		t.Fatalf("InternName: %v", err)
	}
	if got := plain.String(); got != "x" {
		t.Fatalf("String() = %q, want %q", got, "x")
	}

	tagged, err := Intern(ctx, "y", true, &struct{}{})
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if got := tagged.String(); len(got) <= len("y@") {
		t.Fatalf("String() = %q, want a name followed by an @-address", got)
	}
}
