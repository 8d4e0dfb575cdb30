package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"cassprep/internal/config"
	"cassprep/internal/faults"
	"cassprep/internal/ledger"
	"cassprep/internal/logging"
	"cassprep/internal/pipeline"
	"cassprep/internal/split"
	"cassprep/internal/testsupport"
)

const contentOnly = "<CONTENU>Texte sans sommaire.</CONTENU>\n</BLOC_TEXTUEL>\n"

func storyPath(cfg *config.Config, id string) string {
	return filepath.Join(cfg.Paths.OutputDir, id+".story")
}

func listedIDs(t *testing.T, cfg *config.Config) map[split.Set][]string {
	t.Helper()
	w := split.ListWriter{Dir: cfg.Paths.SplitDir}
	lists := make(map[split.Set][]string, len(split.Sets))
	for _, set := range split.Sets {
		lists[set] = testsupport.ReadLines(t, w.Path(set))
	}
	return lists
}

func TestExtractAcceptsAndRejects(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "ca/JURITEXT000001.xml", testsupport.Decision("Le texte.", "Résumé."))
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "ca/JURITEXT000002.xml", contentOnly)
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "cc/JURITEXT000003.xml", testsupport.Decision("null", "Résumé."))
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "cc/JURITEXT000004.xml", testsupport.Decision("Texte.", "null"))
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "notes.txt", "ignored")

	result, err := pipeline.Extract(context.Background(), pipeline.Options{
		Config: cfg,
		Logger: logging.NewNop(),
		Ledger: store,
	})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	tally := result.Tally
	if tally.Accepted != 1 || tally.NoRegions != 1 || tally.EmptyBody != 1 || tally.EmptySummary != 1 {
		t.Fatalf("unexpected tally %+v", tally)
	}
	if got := testsupport.ReadFile(t, storyPath(cfg, "JURITEXT000001")); got != "le texte .\n@highlight\nresume ." {
		t.Fatalf("unexpected story %q", got)
	}
	for _, id := range []string{"JURITEXT000002", "JURITEXT000003", "JURITEXT000004"} {
		if exists, _ := fileExists(storyPath(cfg, id)); exists {
			t.Fatalf("rejected document %s produced a story", id)
		}
	}

	var listed []string
	for _, ids := range listedIDs(t, cfg) {
		listed = append(listed, ids...)
	}
	if !slices.Equal(listed, []string{"JURITEXT000001"}) {
		t.Fatalf("expected the accepted id in exactly one list, got %v", listed)
	}

	detail, err := store.Detail(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if detail.Run.Status != ledger.StatusOK || detail.Run.Command != pipeline.CommandExtract {
		t.Fatalf("unexpected run %+v", detail.Run)
	}
	if detail.Run.Accepted != 1 || detail.Run.Rejected != 3 {
		t.Fatalf("unexpected run counters %+v", detail.Run)
	}
	wantRejections := map[string]int{"no_regions": 1, "empty_body": 1, "empty_summary": 1}
	for reason, want := range wantRejections {
		if detail.Rejections[reason] != want {
			t.Fatalf("rejections[%s] = %d, want %d (%v)", reason, detail.Rejections[reason], want, detail.Rejections)
		}
	}
}

func TestExtractContentOnlyCorpusWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutLedger())
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "JURITEXT000010.xml", contentOnly)

	result, err := pipeline.Extract(context.Background(), pipeline.Options{Config: cfg})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result.Tally.Accepted != 0 || result.Tally.NoRegions != 1 {
		t.Fatalf("unexpected tally %+v", result.Tally)
	}
	if result.RunID == "" {
		t.Fatal("expected a run id without a ledger")
	}
	if exists, _ := fileExists(storyPath(cfg, "JURITEXT000010")); exists {
		t.Fatal("content-only document produced a story")
	}
}

func TestExtractLayouts(t *testing.T) {
	tests := []struct {
		layout string
		want   string
	}{
		{config.LayoutMarkerOnce, "le texte .\n@highlight\npremier point .\nsecond point ."},
		{config.LayoutMarkerPerFragment, "le texte .\n@highlight\npremier point .\n@highlight\nsecond point ."},
	}
	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			cfg := testsupport.NewConfig(t, testsupport.WithLayout(tt.layout), testsupport.WithoutLedger())
			testsupport.WriteDocument(t, cfg.Paths.InputDir, "JURITEXT000020.xml",
				testsupport.Decision("Le texte.", "Premier point.", "Second point."))

			if _, err := pipeline.Extract(context.Background(), pipeline.Options{Config: cfg}); err != nil {
				t.Fatalf("Extract returned error: %v", err)
			}
			if got := testsupport.ReadFile(t, storyPath(cfg, "JURITEXT000020")); got != tt.want {
				t.Fatalf("story = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractRemovesSourceMarkers(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutLedger())
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "JURITEXT000030.xml",
		testsupport.Decision("Voir @Highlight ici.", "Résumé."))

	if _, err := pipeline.Extract(context.Background(), pipeline.Options{Config: cfg}); err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	story := testsupport.ReadFile(t, storyPath(cfg, "JURITEXT000030"))
	if story != "voir ici .\n@highlight\nresume ." {
		t.Fatalf("unexpected story %q", story)
	}
}

func TestExtractRemovesMarkersFormedByFolding(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"accented", "Courriel contact@hïghlight.fr ici.", "courriel contact.fr ici .\n@highlight\necrire a contact.fr ."},
		{"dotted capital", "Voir X@HİGHLİGHT ici.", "voir x ici .\n@highlight\necrire a contact.fr ."},
	}
	for _, layout := range []string{config.LayoutMarkerOnce, config.LayoutMarkerPerFragment} {
		for _, tt := range tests {
			t.Run(layout+"/"+tt.name, func(t *testing.T) {
				cfg := testsupport.NewConfig(t, testsupport.WithoutLedger(), testsupport.WithLayout(layout))
				testsupport.WriteDocument(t, cfg.Paths.InputDir, "JURITEXT000031.xml",
					testsupport.Decision(tt.body, "Écrire à contact@HÏGHLIGHT.fr."))

				if _, err := pipeline.Extract(context.Background(), pipeline.Options{Config: cfg}); err != nil {
					t.Fatalf("Extract returned error: %v", err)
				}
				story := testsupport.ReadFile(t, storyPath(cfg, "JURITEXT000031"))
				if story != tt.want {
					t.Fatalf("story = %q, want %q", story, tt.want)
				}
				if strings.Count(story, "@highlight") != 1 {
					t.Fatalf("expected the inserted marker only, got %q", story)
				}
			})
		}
	}
}

func TestRetokenizeKeepsStoryBoundary(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutLedger())
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "C.story", "Voir contact@hïghlight.fr.\n@highlight\nRésumé.")

	if _, err := pipeline.Retokenize(context.Background(), pipeline.Options{Config: cfg}); err != nil {
		t.Fatalf("Retokenize returned error: %v", err)
	}
	if got := testsupport.ReadFile(t, storyPath(cfg, "C")); got != "voir contact.fr .\n@highlight\nresume ." {
		t.Fatalf("unexpected story %q", got)
	}
}

func TestExtractCountsOverwrites(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteDocument(t, cfg.Paths.OutputDir, "OLD.story", "ancien\n@highlight\nresume")
	testsupport.WriteDocument(t, cfg.Paths.OutputDir, "JURITEXT000040.story", "stale")
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "a/JURITEXT000040.xml", testsupport.Decision("Premier.", "Un."))
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "b/JURITEXT000041.xml", testsupport.Decision("Deuxième.", "Deux."))
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "c/JURITEXT000041.xml", testsupport.Decision("Troisième.", "Trois."))
	store := testsupport.MustOpenLedger(t, cfg)

	result, err := pipeline.Extract(context.Background(), pipeline.Options{Config: cfg, Ledger: store})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	tally := result.Tally
	if tally.Preexisting != 2 || tally.Accepted != 3 || tally.Overwritten != 2 {
		t.Fatalf("unexpected tally %+v", tally)
	}
	if tally.ExpectedStories() != 3 {
		t.Fatalf("expected 3 stories, tally says %d", tally.ExpectedStories())
	}
	if tally.Split.Duplicates != 1 || tally.Split.Assigned() != 2 {
		t.Fatalf("unexpected split counts %+v", tally.Split)
	}
	if got := testsupport.ReadFile(t, storyPath(cfg, "JURITEXT000041")); got != "troisieme .\n@highlight\ntrois ." {
		t.Fatalf("expected the later duplicate to win, got %q", got)
	}

	docs, err := store.Documents(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(docs) != 2 || !docs[0].Overwrote || !docs[1].Overwrote {
		t.Fatalf("unexpected document rows %+v", docs)
	}
	if !strings.HasSuffix(docs[1].SourcePath, filepath.Join("c", "JURITEXT000041.xml")) {
		t.Fatalf("expected latest source path, got %q", docs[1].SourcePath)
	}
}

func TestExtractStreamingSplitIsReproducible(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStreamingSplit(7, true), testsupport.WithoutLedger())
	for i := range 40 {
		testsupport.WriteDocument(t, cfg.Paths.InputDir, fmt.Sprintf("JURITEXT%06d.xml", i),
			testsupport.Decision(fmt.Sprintf("Texte %d.", i), "Résumé."))
	}

	first, err := pipeline.Extract(context.Background(), pipeline.Options{Config: cfg})
	if err != nil {
		t.Fatalf("first Extract: %v", err)
	}
	firstLists := listedIDs(t, cfg)

	second, err := pipeline.Extract(context.Background(), pipeline.Options{Config: cfg})
	if err != nil {
		t.Fatalf("second Extract: %v", err)
	}
	secondLists := listedIDs(t, cfg)

	if first.Tally.Split != second.Tally.Split {
		t.Fatalf("split counts differ: %+v vs %+v", first.Tally.Split, second.Tally.Split)
	}
	total := 0
	for _, set := range split.Sets {
		if !slices.Equal(firstLists[set], secondLists[set]) {
			t.Fatalf("%s list differs between runs", set)
		}
		total += len(secondLists[set])
	}
	if total != 40 {
		t.Fatalf("expected 40 assigned ids after reset, got %d", total)
	}
	if second.Tally.Overwritten != 40 || second.Tally.Preexisting != 40 {
		t.Fatalf("unexpected second tally %+v", second.Tally)
	}
}

func TestExtractFailsWhenOutputLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutLedger())
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "JURITEXT000050.xml", testsupport.Decision("Texte.", "Résumé."))

	held := flock.New(filepath.Join(cfg.Paths.OutputDir, pipeline.LockFileName))
	if err := mkdirAll(cfg.Paths.OutputDir); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("take lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	_, err = pipeline.Extract(context.Background(), pipeline.Options{Config: cfg})
	if !errors.Is(err, faults.ErrLocked) {
		t.Fatalf("expected locked error, got %v", err)
	}
	if faults.ExitCode(err) != 4 {
		t.Fatalf("unexpected exit code %d", faults.ExitCode(err))
	}
}

func TestExtractRequiresInputDir(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutLedger())
	cfg.Paths.InputDir = filepath.Join(testsupport.BaseDir(cfg), "missing")

	_, err := pipeline.Extract(context.Background(), pipeline.Options{Config: cfg})
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestExtractStopsOnCancel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "JURITEXT000060.xml", testsupport.Decision("Texte.", "Résumé."))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := pipeline.Extract(ctx, pipeline.Options{Config: cfg, Ledger: store})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if result.RunID == "" {
		t.Fatal("expected the run to be recorded")
	}
	run, err := store.GetRun(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !run.Finished() || run.Status == ledger.StatusOK {
		t.Fatalf("expected a finished failed run, got %+v", run)
	}
}

type constantTokenizer struct{}

func (constantTokenizer) Tokenize(string) []string { return []string{"x"} }

func TestExtractUsesInjectedTokenizer(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutLedger())
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "JURITEXT000070.xml", testsupport.Decision("Texte.", "Résumé."))

	if _, err := pipeline.Extract(context.Background(), pipeline.Options{Config: cfg, Tokenizer: constantTokenizer{}}); err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got := testsupport.ReadFile(t, storyPath(cfg, "JURITEXT000070")); got != "x\n@highlight\nx" {
		t.Fatalf("unexpected story %q", got)
	}
}

func TestRetokenizeStories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "A.story", "Le Texte.\n@highlight\nRésumé.")
	testsupport.WriteDocument(t, cfg.Paths.InputDir, "B.story", "le texte .\n@highlight\nresume .")

	result, err := pipeline.Retokenize(context.Background(), pipeline.Options{Config: cfg, Ledger: store})
	if err != nil {
		t.Fatalf("Retokenize returned error: %v", err)
	}
	if result.Tally.Accepted != 2 {
		t.Fatalf("unexpected tally %+v", result.Tally)
	}
	for _, id := range []string{"A", "B"} {
		if got := testsupport.ReadFile(t, storyPath(cfg, id)); got != "le texte .\n@highlight\nresume ." {
			t.Fatalf("story %s = %q", id, got)
		}
	}
	run, err := store.GetRun(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Command != pipeline.CommandTokenize || run.Accepted != 2 {
		t.Fatalf("unexpected run %+v", run)
	}
}

func TestSplitStoryDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	for i := range 100 {
		testsupport.WriteDocument(t, cfg.Paths.OutputDir, fmt.Sprintf("DOC%03d.story", i), "texte\n@highlight\nresume")
	}

	result, err := pipeline.Split(context.Background(), pipeline.Options{Config: cfg, Ledger: store}, cfg.Paths.OutputDir)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	counts := result.Tally.Split
	if counts.Train != 80 || counts.Validation != 10 || counts.Test != 10 {
		t.Fatalf("unexpected split counts %+v", counts)
	}

	lists := listedIDs(t, cfg)
	seen := map[string]bool{}
	for _, set := range split.Sets {
		for _, id := range lists[set] {
			if seen[id] {
				t.Fatalf("id %s listed twice", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != 100 {
		t.Fatalf("expected 100 listed ids, got %d", len(seen))
	}

	detail, err := store.Detail(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if detail.Assignments["train"] != 80 || detail.Assignments["validation"] != 10 || detail.Assignments["test"] != 10 {
		t.Fatalf("unexpected ledger assignments %v", detail.Assignments)
	}
}
