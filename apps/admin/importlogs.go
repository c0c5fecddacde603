package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
)

var (
	logColumns         = []string{"aluno_id", "url", "duration", "timestamp", "categoria"}
	requiredLogColumns = logColumns[:4]

	timestampLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}
)

func (cli *commandLine) importLogs(path string) error {
	f, err := openFileFunc(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	logs, err := readLogs(f)
	if err != nil {
		return errors.Wrap(err, path)
	}
	if err := cli.activitySvc.Import(context.Background(), logs); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d logs imported\n", len(logs))
	return nil
}

// readLogs parses a CSV export of the monitoring agent. The header row names the columns, in any order;
// categoria is optional. Timestamps without a zone are UTC.
func readLogs(r io.Reader) ([]activity.LogEntry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredLogColumns {
		if _, ok := index[col]; !ok {
			return nil, errors.Errorf("missing column %q", col)
		}
	}

	var logs []activity.LogEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		value := func(col string) string {
			if i, ok := index[col]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		entry := activity.LogEntry{AlunoID: value("aluno_id"), URL: value("url")}
		if entry.AlunoID == "" || entry.URL == "" {
			return nil, errors.Errorf("line %d: aluno_id and url are required", line)
		}
		if entry.Duration, err = strconv.Atoi(value("duration")); err != nil || entry.Duration < 0 {
			return nil, errors.Errorf("line %d: invalid duration %q", line, value("duration"))
		}
		if entry.Timestamp, err = parseTimestamp(value("timestamp")); err != nil {
			return nil, errors.Errorf("line %d: invalid timestamp %q", line, value("timestamp"))
		}
		if cat := value("categoria"); cat != "" {
			entry.Category = null.StringFrom(cat)
		}
		logs = append(logs, entry)
	}
	return logs, nil
}

func parseTimestamp(s string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var ts time.Time
		if ts, err = time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, err
}
