package asrank_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/digizeph/go-asrank/asrank"
	"github.com/digizeph/go-asrank/internal/test"
	logging "github.com/ipfs/go-log/v2"
	"github.com/stretchr/testify/require"
)

var july2 = time.Date(2020, 7, 2, 15, 30, 0, 0, time.UTC)

func newSession(t *testing.T, options ...asrank.Option) (*asrank.Session, *test.Sender) {
	sender := test.NewSender(test.NewDataset())
	opts := append([]asrank.Option{asrank.WithSender(sender), asrank.WithTime(july2)}, options...)
	s, err := asrank.New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, sender
}

func TestDateOf(t *testing.T) {
	require.Equal(t, "2020-07-02", asrank.DateOf(july2))

	// Time is converted to UTC before taking the day.
	loc := time.FixedZone("UTC+9", 9*60*60)
	require.Equal(t, "2020-07-01", asrank.DateOf(time.Date(2020, 7, 2, 8, 0, 0, 0, loc)))
}

func TestResolveDataset(t *testing.T) {
	s, sender := newSession(t)
	require.Equal(t, "2020-07-01", s.DataDate())
	require.Equal(t, uint64(1), s.QueriesSent())
	require.Contains(t, sender.Queries()[0], `dateEnd:"2020-07-02"`)

	ctx := context.Background()

	date, err := asrank.ResolveDataset(ctx, sender, time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, "2020-08-01", date)

	date, err = asrank.ResolveDataset(ctx, sender, time.Date(2020, 7, 31, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, "2020-07-01", date)
}

func TestResolveDatasetAfter(t *testing.T) {
	sender := test.NewSender(test.NewDataset())
	s, err := asrank.New(context.Background(), asrank.WithSender(sender),
		asrank.WithTime(time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.Equal(t, "2019-01-01", s.DataDate())
	require.Equal(t, uint64(2), s.QueriesSent())
	require.Contains(t, sender.Queries()[1], `dateStart:"2018-03-01", sort:"date"`)
}

func TestResolveDatasetAfterLogsWarning(t *testing.T) {
	require.NoError(t, logging.SetLogLevel("asrank", "warn"))
	t.Cleanup(func() { _ = logging.SetLogLevel("asrank", "error") })

	pipe := logging.NewPipeReader(logging.PipeFormat(logging.JSONOutput), logging.PipeLevel(logging.LevelWarn))
	var lines []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pipe)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
	}()

	sender := test.NewSender(test.NewDataset())
	_, err := asrank.New(context.Background(), asrank.WithSender(sender),
		asrank.WithTime(time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	_ = pipe.Close()
	<-done

	var fallback []string
	for _, line := range lines {
		if strings.Contains(line, "dataset after target date") || strings.Contains(line, "Cannot find dataset before date") {
			fallback = append(fallback, line)
		}
	}
	require.Len(t, fallback, 2)
	for _, line := range fallback {
		require.Contains(t, strings.ToLower(line), `"level":"warn"`)
	}
}

func TestResolveNoDataset(t *testing.T) {
	ds := test.NewDataset()
	ds.Dates = nil
	sender := test.NewSender(ds)

	_, err := asrank.New(context.Background(), asrank.WithSender(sender), asrank.WithTime(july2))
	require.ErrorIs(t, err, asrank.ErrNoDataset)
	require.Equal(t, uint64(2), sender.QueriesSent())
}

func TestResolveMalformed(t *testing.T) {
	sender := test.NewSender(test.NewDataset())
	sender.Override = func(query string) (json.RawMessage, bool, error) {
		return json.RawMessage(`{"datasets":{"nodes":[]}}`), true, nil
	}

	_, err := asrank.New(context.Background(), asrank.WithSender(sender), asrank.WithTime(july2))
	require.ErrorIs(t, err, asrank.ErrMalformedResponse)

	var mrErr *asrank.MalformedResponseError
	require.True(t, errors.As(err, &mrErr))
	require.True(t, strings.Contains(mrErr.Query, "datasets("))
	require.Equal(t, `{"datasets":{"nodes":[]}}`, mrErr.Response)
}

func TestResolveTransportError(t *testing.T) {
	sender := test.NewSender(test.NewDataset())
	failure := errors.New("connection refused")
	sender.Override = func(query string) (json.RawMessage, bool, error) {
		return nil, true, failure
	}

	_, err := asrank.New(context.Background(), asrank.WithSender(sender), asrank.WithTime(july2))
	require.ErrorIs(t, err, failure)
	require.NotErrorIs(t, err, asrank.ErrMalformedResponse)
}

func TestNewOptions(t *testing.T) {
	_, err := asrank.New(context.Background(), asrank.WithChunkSize(0))
	require.ErrorContains(t, err, "option 0 failed")

	_, err = asrank.New(context.Background(), asrank.WithEndpoint("ftp://example.com"))
	require.ErrorContains(t, err, "http or https")
}
