package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/netbreach/apps/go-server/internal/database"
)

func TestSeedIsStablePerDay(t *testing.T) {
	morning := time.Date(2026, 7, 1, 0, 5, 0, 0, time.UTC)
	evening := time.Date(2026, 7, 1, 23, 55, 0, 0, time.UTC)
	next := time.Date(2026, 7, 2, 0, 5, 0, 0, time.UTC)

	if Seed(morning, "salt") != Seed(evening, "salt") {
		t.Fatal("seed changed within a day")
	}
	if Seed(morning, "salt") == Seed(next, "salt") {
		t.Fatal("seed did not change across days")
	}
	if Seed(morning, "salt") == Seed(morning, "pepper") {
		t.Fatal("salt ignored")
	}
	if DateKey(time.Date(2026, 7, 1, 23, 0, 0, 0, time.FixedZone("x", -3*3600))) != "2026-07-02" {
		t.Fatal("DateKey not in UTC")
	}
}

func TestStoreLeaderboard(t *testing.T) {
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "daily.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	st := NewStore(db)

	results := []Result{
		{PlayerID: "a", Date: "2026-07-01", Score: 900, Won: false, NodesHacked: 20, ElapsedMs: 100000},
		{PlayerID: "b", Date: "2026-07-01", Score: 1500, Won: true, NodesHacked: 40, ElapsedMs: 300000},
		{PlayerID: "c", Date: "2026-07-01", Score: 1500, Won: true, NodesHacked: 40, ElapsedMs: 250000},
		{PlayerID: "a", Date: "2026-07-01", Score: 9999, Won: true, NodesHacked: 40, ElapsedMs: 1},
		{PlayerID: "d", Date: "2026-07-02", Score: 5000, Won: true, NodesHacked: 40, ElapsedMs: 1},
	}
	for _, r := range results {
		if err := st.InsertResult(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	played, err := st.AlreadyPlayed(ctx, "a", "2026-07-01")
	if err != nil || !played {
		t.Fatalf("AlreadyPlayed = %v, %v", played, err)
	}
	if played, _ := st.AlreadyPlayed(ctx, "a", "2026-07-02"); played {
		t.Fatal("played on a day without results")
	}

	lb, err := st.Leaderboard(ctx, "2026-07-01", 10)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"c", "b", "a"}
	if len(lb) != len(want) {
		t.Fatalf("rows = %+v", lb)
	}
	for i, id := range want {
		if lb[i].PlayerID != id {
			t.Fatalf("row %d = %s, want %s", i, lb[i].PlayerID, id)
		}
	}
	if lb[2].Score != 900 {
		t.Fatalf("duplicate insert overwrote the first result: %+v", lb[2])
	}
}
