package social_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/sixdegrees/internal/models"
	"github.com/ajitpratap0/sixdegrees/internal/social"
	"github.com/ajitpratap0/sixdegrees/internal/store"
)

const target = "Alexandre Nihous"

func newIngestor(st store.Graph, f social.Fetcher) *social.Ingestor {
	return social.NewIngestor(st, f, target, social.Options{Concurrency: 4, Timeout: time.Second}, nil)
}

func TestIngest_TaggedPersonLinkedOnce(t *testing.T) {
	st := store.NewMemoryStore()
	_, _, err := st.GetOrCreate("Tom Hanks", models.KindPerson)
	require.NoError(t, err)

	f := newMapFetcher()
	f.docs["u1"] = feedJSON(postJSON("http://img/1", "Paris", "", "Tom Hanks"))
	f.docs["u2"] = feedJSON(postJSON("http://img/2", "Rome", "", "tom hanks"))

	rep := newIngestor(st, f).Ingest(context.Background(), []string{"u1", "u2"})
	assert.Equal(t, 2, rep.FeedsOK)
	assert.Equal(t, 1, rep.EvidenceLinks)
	assert.Empty(t, rep.Errors)
	assert.NotEmpty(t, rep.RunID)

	person, ok := st.Get("Tom Hanks")
	require.True(t, ok)
	assert.Equal(t, []string{"alexandrenihous"}, person.Neighbors, "exactly one target edge")
	require.NotNil(t, person.Evidence)
	assert.Contains(t, []string{"http://img/1", "http://img/2"}, person.Evidence.ImageURL)

	tgt, ok := st.Get(target)
	require.True(t, ok)
	assert.Equal(t, []string{"tomhanks"}, tgt.Neighbors)
}

func TestIngest_TaggedUnknownPersonCreated(t *testing.T) {
	st := store.NewMemoryStore()
	f := newMapFetcher()
	f.docs["u1"] = feedJSON(postJSON("http://img/1", "Cannes", "", "Meg Ryan", "Bill Pullman"))

	rep := newIngestor(st, f).Ingest(context.Background(), []string{"u1"})
	assert.Equal(t, 2, rep.PeopleCreated)
	assert.Equal(t, 2, rep.EvidenceLinks)

	meg, ok := st.Get("Meg Ryan")
	require.True(t, ok)
	assert.Equal(t, models.KindPerson, meg.Kind)
	assert.Equal(t, &models.PhotoEvidence{ImageURL: "http://img/1", Location: "Cannes"}, meg.Evidence)
}

func TestIngest_HashtagFallback(t *testing.T) {
	st := store.NewMemoryStore()
	f := newMapFetcher()
	f.docs["u1"] = feedJSON(postJSON("http://img/h", "", "great night with #tomhanks @somewhere"))

	rep := newIngestor(st, f).Ingest(context.Background(), []string{"u1"})
	assert.Equal(t, 1, rep.HashtagLinks)

	person, ok := st.Get("tomhanks")
	require.True(t, ok)
	assert.Equal(t, "tomhanks", person.Key)
	assert.Equal(t, models.KindPerson, person.Kind)
	require.NotNil(t, person.Evidence)
	assert.Equal(t, "http://img/h", person.Evidence.ImageURL)
	assert.Equal(t, []string{"alexandrenihous"}, person.Neighbors)
}

func TestIngest_HashtagResolvingToMovieDiscarded(t *testing.T) {
	st := store.NewMemoryStore()
	_, _, err := st.GetOrCreate("Big", models.KindMovie)
	require.NoError(t, err)

	f := newMapFetcher()
	f.docs["u1"] = feedJSON(postJSON("http://img/m", "", "rewatching with #big tonight"))

	rep := newIngestor(st, f).Ingest(context.Background(), []string{"u1"})
	assert.Zero(t, rep.HashtagLinks)
	assert.Zero(t, rep.EvidenceLinks)

	movie, _ := st.Get("Big")
	assert.Nil(t, movie.Evidence)
	assert.Empty(t, movie.Neighbors)
}

func TestIngest_TaggedPostsSkipCaptionFallback(t *testing.T) {
	st := store.NewMemoryStore()
	f := newMapFetcher()
	f.docs["u1"] = feedJSON(postJSON("http://img/1", "", "with #someoneelse", "Meg Ryan"))

	newIngestor(st, f).Ingest(context.Background(), []string{"u1"})

	_, ok := st.Get("someoneelse")
	assert.False(t, ok)
	_, ok = st.Get("Meg Ryan")
	assert.True(t, ok)
}

func TestIngest_UnnamedTaggedUserSkipsCaptionFallback(t *testing.T) {
	st := store.NewMemoryStore()
	f := newMapFetcher()
	f.docs["u1"] = feedJSON(postJSON("http://img/1", "", "dinner with #kevinbacon", ""))

	rep := newIngestor(st, f).Ingest(context.Background(), []string{"u1"})
	assert.Equal(t, 1, rep.Posts)
	assert.Zero(t, rep.HashtagLinks)
	assert.Zero(t, rep.EvidenceLinks)

	_, ok := st.Get("kevinbacon")
	assert.False(t, ok)
}

func TestIngest_TargetTaggedIsIgnored(t *testing.T) {
	st := store.NewMemoryStore()
	f := newMapFetcher()
	f.docs["u1"] = feedJSON(postJSON("http://img/1", "", "", target))

	rep := newIngestor(st, f).Ingest(context.Background(), []string{"u1"})
	assert.Zero(t, rep.EvidenceLinks)

	tgt, _ := st.Get(target)
	assert.Nil(t, tgt.Evidence)
	assert.Empty(t, tgt.Neighbors)
}

func TestIngest_PartialFailureIsolated(t *testing.T) {
	st := store.NewMemoryStore()
	f := newMapFetcher()
	f.docs["good"] = feedJSON(postJSON("http://img/1", "", "", "Meg Ryan"))
	f.docs["garbage"] = `{"data":`
	f.errs["down"] = errors.New("connection refused")

	rep := newIngestor(st, f).Ingest(context.Background(), []string{"good", "garbage", "down"})
	assert.Equal(t, 3, rep.Feeds)
	assert.Equal(t, 1, rep.FeedsOK)
	assert.Equal(t, 2, rep.FeedsFailed)
	require.Len(t, rep.Errors, 2)

	var (
		fetchErrs int
		parseErrs int
	)
	for _, err := range rep.Errors {
		var fe *social.FetchError
		var pe *social.FeedParseError
		switch {
		case errors.As(err, &fe):
			fetchErrs++
			assert.Equal(t, "down", fe.URL)
		case errors.As(err, &pe):
			parseErrs++
			assert.Equal(t, "garbage", pe.URL)
		}
	}
	assert.Equal(t, 1, fetchErrs)
	assert.Equal(t, 1, parseErrs)

	_, ok := st.Get("Meg Ryan")
	assert.True(t, ok, "good feed still ingested")
}

func TestIngest_TimeoutDoesNotBlockOthers(t *testing.T) {
	st := store.NewMemoryStore()
	f := newMapFetcher()
	f.block["slow"] = true
	f.docs["fast"] = feedJSON(postJSON("http://img/1", "", "", "Meg Ryan"))

	in := social.NewIngestor(st, f, target, social.Options{Concurrency: 2, Timeout: 50 * time.Millisecond}, nil)
	rep := in.Ingest(context.Background(), []string{"slow", "fast"})

	assert.Equal(t, 1, rep.FeedsOK)
	assert.Equal(t, 1, rep.FeedsFailed)
	require.Len(t, rep.Errors, 1)
	assert.ErrorIs(t, rep.Errors[0], context.DeadlineExceeded)
}

func TestStart_ReturnsBeforeTasksFinish(t *testing.T) {
	st := store.NewMemoryStore()
	f := newMapFetcher()
	f.block["slow"] = true

	ctx, cancel := context.WithCancel(context.Background())
	in := social.NewIngestor(st, f, target, social.Options{Concurrency: 1, Timeout: time.Minute}, nil)
	run := in.Start(ctx, []string{"slow"})

	_, ok := st.Get(target)
	assert.True(t, ok, "target exists as soon as Start returns")

	select {
	case <-run.Done():
		t.Fatal("run finished before its task was released")
	default:
	}

	cancel()
	rep := run.Wait()
	assert.Equal(t, 1, rep.FeedsFailed)
	assert.ErrorIs(t, rep.Errors[0], context.Canceled)
}

func TestStart_TargetCollidesWithMovie(t *testing.T) {
	st := store.NewMemoryStore()
	_, _, err := st.GetOrCreate(target, models.KindMovie)
	require.NoError(t, err)

	rep := newIngestor(st, newMapFetcher()).Ingest(context.Background(), []string{"u1"})
	require.Len(t, rep.Errors, 1)
	assert.ErrorIs(t, rep.Errors[0], store.ErrKindMismatch)
	assert.Equal(t, 1, rep.FeedsFailed)
}

func TestIngest_ConcurrentFeedsNoDuplicateEdges(t *testing.T) {
	st := store.NewMemoryStore()
	f := newMapFetcher()

	const feeds = 40
	urls := make([]string, 0, feeds)
	for i := 0; i < feeds; i++ {
		url := fmt.Sprintf("u%d", i)
		urls = append(urls, url)
		f.docs[url] = feedJSON(
			postJSON(fmt.Sprintf("http://img/%d", i), "", "", "Tom Hanks", fmt.Sprintf("Person %d", i)),
		)
	}

	rep := social.NewIngestor(st, f, target, social.Options{Concurrency: 16, Timeout: time.Second}, nil).
		Ingest(context.Background(), urls)
	assert.Equal(t, feeds, rep.FeedsOK)
	assert.Equal(t, feeds+1, rep.EvidenceLinks)

	tom, _ := st.Get("Tom Hanks")
	assert.Len(t, tom.Neighbors, 1)

	tgt, _ := st.Get(target)
	assert.Len(t, tgt.Neighbors, feeds+1)
}
