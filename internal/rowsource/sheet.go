package rowsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

const sheetSourceName = "sheet"

// SheetSource fetches the published CSV export of the matches spreadsheet.
type SheetSource struct {
	url    string
	client *RateLimitedHTTPClient
	logger *logrus.Logger
}

// NewSheetSource creates a sheet-backed row source.
func NewSheetSource(url string, client *RateLimitedHTTPClient, logger *logrus.Logger) *SheetSource {
	return &SheetSource{
		url:    url,
		client: client,
		logger: logger,
	}
}

// Name returns the name of the row source.
func (s *SheetSource) Name() string {
	return sheetSourceName
}

// FetchRows downloads the CSV export and decodes every data line into a
// named-field row. The header line and blank lines are discarded; lines
// with fewer than minSheetFields cells are dropped and logged.
func (s *SheetSource) FetchRows(ctx context.Context) ([]RawRow, error) {
	body, err := s.fetchText(ctx)
	if err != nil {
		return nil, NewSourceError(sheetSourceName, ErrCodeSourceUnavailable, "failed to fetch sheet export", err)
	}

	lines := strings.Split(body, "\n")
	rows := make([]RawRow, 0, len(lines))
	short := 0
	seenHeader := false

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !seenHeader {
			seenHeader = true
			continue
		}

		cells := DecodeLine(line)
		if len(cells) < minSheetFields {
			short++
			continue
		}
		rows = append(rows, mapSheetRow(cells))
	}

	if short > 0 {
		s.logger.WithFields(logrus.Fields{
			"source":  sheetSourceName,
			"dropped": short,
		}).Debug("Dropped short sheet rows")
	}

	return rows, nil
}

// Ping verifies the sheet export endpoint is reachable.
func (s *SheetSource) Ping(ctx context.Context) error {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from sheet export", resp.StatusCode)
	}
	return nil
}

func (s *SheetSource) fetchText(ctx context.Context) (string, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("unexpected status %d from sheet export", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read sheet body: %w", err)
	}
	return string(data), nil
}
