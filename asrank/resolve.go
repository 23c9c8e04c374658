package asrank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/digizeph/go-asrank/transport"
)

// dateLayout is the date format of the ASRank API, which has no finer time
// resolution than a day.
const dateLayout = "2006-01-02"

// DateOf returns the ASRank date string of the UTC day containing t.
func DateOf(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// ResolveDataset returns the date identifying the most recent dataset on or
// before the day of t. If there is none, the earliest dataset after t is
// used instead, and a warning is logged since results will not describe the
// requested time. ErrNoDataset is returned when there are no datasets at all.
func ResolveDataset(ctx context.Context, sender transport.Sender, t time.Time) (string, error) {
	target := DateOf(t)

	date, err := queryDataset(ctx, sender, datasetBeforeQuery(target))
	if err != nil {
		return "", err
	}
	if date != "" {
		return date, nil
	}

	log.Warnw("Cannot find dataset before date, looking for the closest one after it", "date", target)

	date, err = queryDataset(ctx, sender, datasetAfterQuery(target))
	if err != nil {
		return "", err
	}
	if date == "" {
		return "", fmt.Errorf("%w: none before or after %s", ErrNoDataset, target)
	}
	log.Warnw("Using closest dataset after target date", "date", target, "dataset", date)
	return date, nil
}

// queryDataset sends a datasets query and returns the date of the first
// result, or an empty string if there are no results.
func queryDataset(ctx context.Context, sender transport.Sender, query string) (string, error) {
	data, err := sender.Send(ctx, query)
	if err != nil {
		return "", fmt.Errorf("cannot query datasets: %w", err)
	}

	var conn datasetConnection
	ok, err := decodeField(data, "datasets", &conn)
	if err == nil && (!ok || conn.Edges == nil) {
		err = errors.New("missing dataset edges")
	}
	if err != nil {
		return "", malformed(query, data, err)
	}
	if len(conn.Edges) == 0 {
		return "", nil
	}
	date := conn.Edges[0].Node.Date
	if date == "" {
		return "", malformed(query, data, errors.New("dataset without date"))
	}
	return date, nil
}
