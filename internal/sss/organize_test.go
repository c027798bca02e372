package sss_test

import (
	"path/filepath"
	"testing"
	"time"

	"sss-go/internal/database"
	"sss-go/internal/organize"
	"sss-go/internal/sss"
	"sss-go/internal/testutil"
)

func TestService_PlanOrganize(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "old.png", "1", jan)
	testutil.WriteFile(t, root, "new.jpg", "22", mar)
	testutil.WriteFile(t, root, "readme.txt", "x", mar)
	testutil.WriteFile(t, root, "_by_date/2022/01/done.png", "x", jan)

	f := newFixture(t, sss.Options{Recursive: true})
	plan, err := f.svc.PlanOrganize(root, "")
	if err != nil {
		t.Fatalf("PlanOrganize() error = %v", err)
	}

	out := filepath.Join(root, sss.DefaultOutDirName)
	if plan.OutRoot != out {
		t.Errorf("OutRoot = %s, want %s", plan.OutRoot, out)
	}
	if len(plan.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(plan.Items))
	}
	if filepath.Base(plan.Items[0].Src) != "new.jpg" || plan.Items[0].DestDir != organize.TargetDir(out, mar) {
		t.Errorf("first item = %+v", plan.Items[0])
	}
	if plan.Items[0].Size != 2 {
		t.Errorf("Size = %d, want 2", plan.Items[0].Size)
	}
	if filepath.Base(plan.Items[1].Src) != "old.png" || plan.Items[1].DestDir != organize.TargetDir(out, jan) {
		t.Errorf("second item = %+v", plan.Items[1])
	}

	sim := f.svc.SimulateReport(plan)
	if sim.Simulated != 2 || sim.OutRoot != out || sim.Operation != sss.OpOrganize {
		t.Errorf("SimulateReport() = %+v", sim)
	}
}

func TestService_ExecuteOrganize(t *testing.T) {
	root := t.TempDir()
	a := testutil.WriteFile(t, root, "a/shot.png", "first", feb)
	b := testutil.WriteFile(t, root, "b/shot.png", "second", feb.Add(time.Hour))
	out := filepath.Join(t.TempDir(), "sorted")

	f := newFixture(t, sss.Options{Recursive: true})
	plan, err := f.svc.PlanOrganize(root, out)
	if err != nil {
		t.Fatalf("PlanOrganize() error = %v", err)
	}

	report, err := f.svc.ExecuteOrganize(plan)
	if err != nil {
		t.Fatalf("ExecuteOrganize() error = %v", err)
	}
	if report.Moved != 2 || report.Total() != 2 {
		t.Errorf("report = %+v", report)
	}
	if testutil.Exists(a) || testutil.Exists(b) {
		t.Error("sources still present")
	}

	dir := organize.TargetDir(out, feb)
	// b is newer, so it is planned and moved first and keeps the plain name.
	if got := testutil.ReadFile(t, filepath.Join(dir, "shot.png")); got != "second" {
		t.Errorf("shot.png = %q, want second", got)
	}
	if got := testutil.ReadFile(t, filepath.Join(dir, "shot (1).png")); got != "first" {
		t.Errorf("shot (1).png = %q, want first", got)
	}

	run, moves, err := f.svc.RunMoves(report.RunID)
	if err != nil {
		t.Fatalf("RunMoves() error = %v", err)
	}
	if run.Status != database.StatusSuccess || run.Operation != sss.OpOrganize {
		t.Errorf("run = %+v", run)
	}
	if len(moves) != 2 || moves[1].Dst != filepath.Join(dir, "shot (1).png") {
		t.Errorf("moves = %+v", moves)
	}
}

func TestService_ExecuteOrganize_Empty(t *testing.T) {
	f := newFixture(t, sss.Options{})
	plan, err := f.svc.PlanOrganize(t.TempDir(), "")
	if err != nil {
		t.Fatalf("PlanOrganize() error = %v", err)
	}
	report, err := f.svc.ExecuteOrganize(plan)
	if err != nil {
		t.Fatalf("ExecuteOrganize() error = %v", err)
	}
	if report.RunID != 0 || report.Moved != 0 {
		t.Errorf("report = %+v", report)
	}
}
