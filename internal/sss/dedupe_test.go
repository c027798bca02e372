package sss_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"sss-go/internal/database"
	"sss-go/internal/dedupe"
	"sss-go/internal/sss"
	"sss-go/internal/testutil"
)

func TestService_PlanDedupe(t *testing.T) {
	root := t.TempDir()
	older := testutil.WriteFile(t, root, "older.png", "same", jan)
	newer := testutil.WriteFile(t, root, "newer.png", "same", mar)
	nested := testutil.WriteFile(t, root, "sub/nested.png", "same", feb)
	testutil.WriteFile(t, root, "unique.png", "different", jan)
	testutil.WriteFile(t, root, "notes.txt", "same", jan)

	f := newFixture(t, sss.Options{Recursive: true})
	plan, err := f.svc.PlanDedupe(root, "")
	if err != nil {
		t.Fatalf("PlanDedupe() error = %v", err)
	}

	if plan.Scanned != 4 {
		t.Errorf("Scanned = %d, want 4", plan.Scanned)
	}
	if len(plan.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(plan.Groups))
	}
	g := plan.Groups[0]
	if g.Keeper != newer {
		t.Errorf("Keeper = %s, want %s", g.Keeper, newer)
	}
	if len(plan.Actions) != 2 || len(g.Actions) != 2 {
		t.Fatalf("got %d actions (%d in group), want 2", len(plan.Actions), len(g.Actions))
	}

	bucket := filepath.Join(root, sss.DefaultTargetDirName, dedupe.ShortDigest(g.Group.Digest))
	for _, a := range plan.Actions {
		if a.Src == newer {
			t.Errorf("keeper %s scheduled for move", newer)
		}
		if a.Dst != filepath.Join(bucket, filepath.Base(a.Src)) {
			t.Errorf("Dst = %s, want inside %s", a.Dst, bucket)
		}
		if a.Reason != "duplicate of newer.png ("+dedupe.ShortDigest(g.Group.Digest)+")" {
			t.Errorf("Reason = %q", a.Reason)
		}
	}

	// Planning touches nothing.
	for _, p := range []string{older, newer, nested} {
		if !testutil.Exists(p) {
			t.Errorf("%s disappeared during planning", p)
		}
	}
	if testutil.Exists(filepath.Join(root, sss.DefaultTargetDirName)) {
		t.Error("target directory created during planning")
	}
}

func TestService_PlanDedupe_NoDuplicates(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "a.png", "one", jan)
	testutil.WriteFile(t, root, "b.png", "two", jan)

	f := newFixture(t, sss.Options{})
	plan, err := f.svc.PlanDedupe(root, "")
	if err != nil {
		t.Fatalf("PlanDedupe() error = %v", err)
	}
	if !plan.Empty() {
		t.Fatalf("plan not empty: %+v", plan.Actions)
	}

	report, err := f.svc.ExecuteDedupe(plan)
	if err != nil {
		t.Fatalf("ExecuteDedupe() error = %v", err)
	}
	if report.Moved != 0 || report.RunID != 0 {
		t.Errorf("report = %+v, want no run", report)
	}
	runs, _ := f.db.ListRuns(10)
	if len(runs) != 0 {
		t.Errorf("empty plan journaled %d runs", len(runs))
	}
}

func TestService_PlanDedupe_CustomTarget(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "a.png", "same", jan)
	testutil.WriteFile(t, root, "b.png", "same", feb)
	target := filepath.Join(t.TempDir(), "elsewhere")

	f := newFixture(t, sss.Options{Policy: dedupe.PolicyOldest})
	plan, err := f.svc.PlanDedupe(root, target)
	if err != nil {
		t.Fatalf("PlanDedupe() error = %v", err)
	}
	if plan.TargetDir != target {
		t.Errorf("TargetDir = %s, want %s", plan.TargetDir, target)
	}
	if len(plan.Actions) != 1 || filepath.Base(plan.Actions[0].Src) != "b.png" {
		t.Errorf("oldest policy should move b.png, got %+v", plan.Actions)
	}
}

func TestService_PlanDedupe_Collisions(t *testing.T) {
	setup := func(t *testing.T) string {
		root := t.TempDir()
		testutil.WriteFile(t, root, "keep.png", "same", mar)
		testutil.WriteFile(t, root, "x/shot.png", "same", jan)
		testutil.WriteFile(t, root, "y/shot.png", "same", feb)
		return root
	}

	t.Run("rename", func(t *testing.T) {
		root := setup(t)
		f := newFixture(t, sss.Options{Recursive: true})
		plan, err := f.svc.PlanDedupe(root, "")
		if err != nil {
			t.Fatalf("PlanDedupe() error = %v", err)
		}
		if len(plan.Actions) != 2 {
			t.Fatalf("got %d actions, want 2", len(plan.Actions))
		}
		got := []string{filepath.Base(plan.Actions[0].Dst), filepath.Base(plan.Actions[1].Dst)}
		if got[0] != "shot.png" || got[1] != "shot (1).png" {
			t.Errorf("destinations = %v, want [shot.png shot (1).png]", got)
		}
		if plan.Groups[0].Actions[1].Dst != plan.Actions[1].Dst {
			t.Error("group actions not resolved")
		}
	})

	t.Run("fail", func(t *testing.T) {
		root := setup(t)
		f := newFixture(t, sss.Options{Recursive: true, OnConflict: dedupe.CollisionFail})
		_, err := f.svc.PlanDedupe(root, "")
		if !errors.Is(err, dedupe.ErrDestinationConflict) {
			t.Errorf("PlanDedupe() error = %v, want ErrDestinationConflict", err)
		}
	})
}

func TestService_ExecuteDedupe(t *testing.T) {
	root := t.TempDir()
	keeper := testutil.WriteFile(t, root, "a.png", "same", mar)
	dup := testutil.WriteFile(t, root, "b.png", "same", jan)

	f := newFixture(t, sss.Options{Algorithm: dedupe.BLAKE3, Workers: 2})
	plan, err := f.svc.PlanDedupe(root, "")
	if err != nil {
		t.Fatalf("PlanDedupe() error = %v", err)
	}
	dst := plan.Actions[0].Dst

	report, err := f.svc.ExecuteDedupe(plan)
	if err != nil {
		t.Fatalf("ExecuteDedupe() error = %v", err)
	}
	if report.Moved != 1 || report.RunID == 0 || report.RunUUID != "run-1" {
		t.Errorf("report = %+v", report)
	}
	if testutil.Exists(dup) || !testutil.Exists(keeper) {
		t.Error("duplicate not moved or keeper touched")
	}
	if got := testutil.ReadFile(t, dst); got != "same" {
		t.Errorf("moved content = %q", got)
	}

	run, moves, err := f.svc.RunMoves(report.RunID)
	if err != nil {
		t.Fatalf("RunMoves() error = %v", err)
	}
	if run.Status != database.StatusSuccess || run.Operation != sss.OpDedupe || run.Root != root {
		t.Errorf("run = %+v", run)
	}
	if len(moves) != 1 || moves[0].Src != dup || moves[0].Dst != dst || moves[0].Kind != "move" {
		t.Errorf("moves = %+v", moves)
	}

	// The target directory is never rescanned, so a second pass is empty.
	again, err := f.svc.PlanDedupe(root, "")
	if err != nil {
		t.Fatalf("second PlanDedupe() error = %v", err)
	}
	if !again.Empty() {
		t.Errorf("second pass planned %d moves", len(again.Actions))
	}
}

func TestService_ExecuteDedupe_FailsFast(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "keep.png", "same", mar)
	testutil.WriteFile(t, root, "b.png", "same", jan)
	testutil.WriteFile(t, root, "c.png", "same", feb)

	f := newFixture(t, sss.Options{})
	plan, err := f.svc.PlanDedupe(root, "")
	if err != nil {
		t.Fatalf("PlanDedupe() error = %v", err)
	}
	if len(plan.Actions) != 2 {
		t.Fatalf("got %d actions, want 2", len(plan.Actions))
	}
	if err := os.Remove(plan.Actions[1].Src); err != nil {
		t.Fatal(err)
	}

	report, err := f.svc.ExecuteDedupe(plan)
	if err == nil {
		t.Fatal("ExecuteDedupe() expected error")
	}
	if report.Moved != 1 {
		t.Errorf("Moved = %d, want 1", report.Moved)
	}
	run, moves, err := f.svc.RunMoves(report.RunID)
	if err != nil {
		t.Fatalf("RunMoves() error = %v", err)
	}
	if run.Status != database.StatusError {
		t.Errorf("Status = %q, want %q", run.Status, database.StatusError)
	}
	if len(moves) != 1 || moves[0].Src != plan.Actions[0].Src {
		t.Errorf("moves = %+v", moves)
	}
	if !slices.Contains(f.log.Messages, "ERROR run failed") {
		t.Errorf("failure not logged: %v", f.log.Messages)
	}
}
