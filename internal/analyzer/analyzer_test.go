package analyzer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/stackburn/internal/config"
	"github.com/dbsmedya/stackburn/internal/payload"
	"github.com/dbsmedya/stackburn/internal/types"
)

var evalTime = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testAnalyzer() *Analyzer {
	a := New(config.DefaultConfig())
	a.Now = func() time.Time { return evalTime }
	return a
}

func files(n int, size int64, prefix string) []payload.File {
	out := make([]payload.File, n)
	for i := range out {
		name := fmt.Sprintf("%s-%d", prefix, i)
		out[i] = payload.File{Path: "/data/" + name, Name: name, Size: size}
	}
	return out
}

func repos(n int, sizeKB int64, prefix string) []payload.Repo {
	out := make([]payload.Repo, n)
	for i := range out {
		out[i] = payload.Repo{FullName: fmt.Sprintf("octo/%s-%d", prefix, i), Size: sizeKB}
	}
	return out
}

func TestNilPayloads(t *testing.T) {
	a := testAnalyzer()

	assert.Zero(t, a.AnalyzeLocal(nil).Score)
	assert.Zero(t, a.AnalyzeCloud(nil).Score)
	assert.Zero(t, a.AnalyzeCodeHosting(nil).Score)
	assert.Equal(t, types.SourceCloud, a.AnalyzeCloud(nil).Source)
}

func TestEmptyPayloadsScoreZero(t *testing.T) {
	a := testAnalyzer()

	assert.Zero(t, a.AnalyzeLocal(&payload.Local{}).Score)
	assert.Zero(t, a.AnalyzeCloud(&payload.Cloud{}).Score)
	assert.Zero(t, a.AnalyzeCodeHosting(&payload.CodeHosting{}).Score)
}

func TestAnalyzeLocalDuplicates(t *testing.T) {
	a := testAnalyzer()
	const size = 2 * types.BytesPerGB

	got := a.AnalyzeLocal(&payload.Local{
		Duplicates: []payload.Duplicate{{
			Hash:      "abc",
			TotalSize: 2 * size,
			Files:     files(3, size, "movie"),
		}},
	})

	dup := got.Categories.Duplicates
	assert.Equal(t, 2, dup.Count)
	assert.InDelta(t, 4.0, dup.TotalSizeGB, 1e-9)
	assert.Equal(t, []string{"/data/movie-1", "/data/movie-2"}, dup.Items)
	assert.Equal(t, 4.0, got.Score)
}

func TestAnalyzeLocalSkipsSingletonGroups(t *testing.T) {
	a := testAnalyzer()

	got := a.AnalyzeLocal(&payload.Local{
		Duplicates: []payload.Duplicate{{Hash: "x", TotalSize: 0, Files: files(1, 10, "one")}},
	})
	assert.Zero(t, got.Categories.Duplicates.Count)
	assert.Zero(t, got.Score)
}

func TestAnalyzeLocalDuplicateSamplesPerGroup(t *testing.T) {
	a := testAnalyzer()

	got := a.AnalyzeLocal(&payload.Local{
		Duplicates: []payload.Duplicate{{Hash: "x", TotalSize: 90, Files: files(10, 10, "copy")}},
	})
	assert.Equal(t, 9, got.Categories.Duplicates.Count)
	assert.Len(t, got.Categories.Duplicates.Items, 3)
}

func TestAnalyzeLocalCaps(t *testing.T) {
	a := testAnalyzer()
	large := int64(200 * 1024 * 1024)

	got := a.AnalyzeLocal(&payload.Local{
		Duplicates:   []payload.Duplicate{{Hash: "h", TotalSize: 20, Files: files(21, 1, "d")}},
		LargestFiles: files(25, large, "big"),
		UnusedFiles:  files(30, 10, "old"),
	})

	assert.Equal(t, 20, got.Categories.Duplicates.Count)
	assert.Equal(t, 25, got.Categories.LargeUnused.Count)
	assert.Equal(t, 30, got.Categories.Stale.Count)
	assert.Equal(t, 30.0+20.0+20.0, got.Score)
}

func TestAnalyzeLocalLargeThreshold(t *testing.T) {
	a := testAnalyzer()

	got := a.AnalyzeLocal(&payload.Local{
		LargestFiles: []payload.File{
			{Name: "exact.iso", Size: a.LargeFileBytes},
			{Name: "small.iso", Size: a.LargeFileBytes - 1},
		},
	})

	assert.Equal(t, 1, got.Categories.LargeUnused.Count)
	assert.Equal(t, []string{"exact.iso"}, got.Categories.LargeUnused.Items)
	assert.Equal(t, 1.0, got.Score)
}

func TestAnalyzeLocalTemporaryHasNoScore(t *testing.T) {
	a := testAnalyzer()

	got := a.AnalyzeLocal(&payload.Local{TemporaryFiles: files(4, types.BytesPerGB, "tmp")})

	assert.Equal(t, 4, got.Categories.Temporary.Count)
	assert.InDelta(t, 4.0, got.Categories.Temporary.TotalSizeGB, 1e-9)
	assert.Zero(t, got.Score)
}

func TestAnalyzeLocalSampleLimit(t *testing.T) {
	a := testAnalyzer()
	a.SampleLimit = 5

	got := a.AnalyzeLocal(&payload.Local{UnusedFiles: files(12, 1, "old")})
	assert.Equal(t, 12, got.Categories.Stale.Count)
	assert.Len(t, got.Categories.Stale.Items, 5)
}

func TestAnalyzeCloudMediaShare(t *testing.T) {
	a := testAnalyzer()

	tests := []struct {
		name      string
		fileTypes map[string]int64
		want      float64
	}{
		{"videos above 40%", map[string]int64{"Videos": 45, "Documents": 55}, 10},
		{"videos exactly 40%", map[string]int64{"Videos": 40}, 0},
		{"videos and images", map[string]int64{"Videos": 41, "Images": 42}, 20},
		{"other above 30%", map[string]int64{"Other": 31}, 5},
		{"other exactly 30%", map[string]int64{"Other": 30}, 0},
		{"audio ignored", map[string]int64{"Audio": 90}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.AnalyzeCloud(&payload.Cloud{TotalFiles: 100, FileTypes: tt.fileTypes})
			assert.Equal(t, tt.want, got.Score)
		})
	}
}

func TestAnalyzeCloudZeroTotalFiles(t *testing.T) {
	a := testAnalyzer()

	got := a.AnalyzeCloud(&payload.Cloud{FileTypes: map[string]int64{"Videos": 5}})
	assert.Zero(t, got.Score)
}

func TestAnalyzeCloudStale(t *testing.T) {
	a := testAnalyzer()
	old := evalTime.AddDate(-1, 0, 0).Format(time.RFC3339)
	recent := evalTime.AddDate(0, -1, 0).Format(time.RFC3339)

	got := a.AnalyzeCloud(&payload.Cloud{
		OldestFiles: []payload.CloudFile{
			{Name: "old-1", Size: types.BytesPerGB, ModifiedTime: old},
			{Name: "old-2", Size: types.BytesPerGB / 2, ModifiedTime: "2019-03-01T10:00:00.123+02:00"},
			{Name: "recent", Size: 10, ModifiedTime: recent},
			{Name: "garbage", Size: 10, ModifiedTime: "last tuesday"},
			{Name: "missing", Size: 10},
		},
	})

	stale := got.Categories.Stale
	assert.Equal(t, 2, stale.Count)
	assert.InDelta(t, 1.5, stale.TotalSizeGB, 1e-9)
	assert.Equal(t, []string{"old-1", "old-2"}, stale.Items)
	assert.Equal(t, 2.0, got.Score)
}

func TestAnalyzeCloudStaleCap(t *testing.T) {
	a := testAnalyzer()
	old := evalTime.AddDate(-2, 0, 0).Format(time.RFC3339)

	oldest := make([]payload.CloudFile, 30)
	for i := range oldest {
		oldest[i] = payload.CloudFile{Name: fmt.Sprintf("f%d", i), ModifiedTime: old}
	}

	got := a.AnalyzeCloud(&payload.Cloud{TotalFiles: 100, FileTypes: map[string]int64{"Videos": 50}, OldestFiles: oldest})
	assert.Equal(t, 30, got.Categories.Stale.Count)
	assert.Equal(t, 10.0+20.0, got.Score)
}

func TestAnalyzeCodeHosting(t *testing.T) {
	a := testAnalyzer()

	got := a.AnalyzeCodeHosting(&payload.CodeHosting{
		TotalRepos:    40,
		TotalSizeKB:   2048,
		StaleRepos:    repos(5, 1024*1024, "stale"),
		ArchivedRepos: repos(2, 512, "archived"),
		InactiveForks: repos(1, 256, "fork"),
	})

	assert.Equal(t, 21.0, got.Score)
	assert.Equal(t, int64(40), got.TotalFiles)
	assert.Equal(t, int64(2048*1024), got.TotalBytes)
	assert.Equal(t, 5, got.Categories.Stale.Count)
	assert.InDelta(t, 5.0, got.Categories.Stale.TotalSizeGB, 1e-9)
	assert.Equal(t, 2, got.Categories.Archived.Count)
	assert.Equal(t, 1, got.Categories.Versioned.Count)
	assert.Equal(t, "octo/fork-0", got.Categories.Versioned.Items[0])
}

func TestAnalyzeCodeHostingCaps(t *testing.T) {
	a := testAnalyzer()

	got := a.AnalyzeCodeHosting(&payload.CodeHosting{
		StaleRepos:    repos(11, 1, "s"),
		ArchivedRepos: repos(11, 1, "a"),
		InactiveForks: repos(11, 1, "f"),
	})
	assert.Equal(t, 30.0+20.0+20.0, got.Score)
}

func TestScoresAreBounded(t *testing.T) {
	a := testAnalyzer()
	old := evalTime.AddDate(-3, 0, 0).Format(time.RFC3339)
	oldest := make([]payload.CloudFile, 100)
	for i := range oldest {
		oldest[i] = payload.CloudFile{ModifiedTime: old}
	}

	results := []Analysis{
		a.AnalyzeLocal(&payload.Local{
			Duplicates:   []payload.Duplicate{{Files: files(500, 1, "d")}},
			LargestFiles: files(500, 1<<40, "l"),
			UnusedFiles:  files(500, 1, "u"),
		}),
		a.AnalyzeCloud(&payload.Cloud{
			TotalFiles:  10,
			FileTypes:   map[string]int64{"Videos": 10, "Images": 10, "Other": 10},
			OldestFiles: oldest,
		}),
		a.AnalyzeCodeHosting(&payload.CodeHosting{
			StaleRepos: repos(100, 1, "s"), ArchivedRepos: repos(100, 1, "a"), InactiveForks: repos(100, 1, "f"),
		}),
	}

	for _, r := range results {
		require.GreaterOrEqual(t, r.Score, 0.0, r.Source)
		require.LessOrEqual(t, r.Score, 100.0, r.Source)
	}
}

func TestNegativeTotalsAreZero(t *testing.T) {
	a := testAnalyzer()

	got := a.AnalyzeLocal(&payload.Local{TotalFiles: -5, TotalSize: -100})
	assert.Zero(t, got.TotalFiles)
	assert.Zero(t, got.TotalBytes)
}

func TestAnalyzeCloudStaleWithoutOffset(t *testing.T) {
	a := testAnalyzer()

	got := a.AnalyzeCloud(&payload.Cloud{
		OldestFiles: []payload.CloudFile{
			{Name: "naive-old", Size: types.BytesPerGB, ModifiedTime: "2023-01-01T00:00:00"},
			{Name: "naive-recent", Size: 10, ModifiedTime: evalTime.AddDate(0, 0, -1).Format("2006-01-02T15:04:05")},
		},
	})

	assert.Equal(t, 1, got.Categories.Stale.Count)
	assert.Equal(t, []string{"naive-old"}, got.Categories.Stale.Items)
	assert.Equal(t, 1.0, got.Score)
}

func TestAnalyzeLocalSkipsHardLinks(t *testing.T) {
	a := testAnalyzer()

	got := a.AnalyzeLocal(&payload.Local{
		Duplicates: []payload.Duplicate{{
			Hash:      "abc",
			TotalSize: types.BytesPerGB,
			Files: []payload.File{
				{Path: "/data/a.iso", Size: types.BytesPerGB},
				{Path: "/data/a-link.iso", Size: types.BytesPerGB, HardLink: true},
				{Path: "/data/b.iso", Size: types.BytesPerGB},
			},
		}},
	})

	dups := got.Categories.Duplicates
	assert.Equal(t, 1, dups.Count)
	assert.InDelta(t, 1.0, dups.TotalSizeGB, 1e-9)
	assert.Equal(t, []string{"/data/b.iso"}, dups.Items)
	assert.Equal(t, 2.0, got.Score)
}
