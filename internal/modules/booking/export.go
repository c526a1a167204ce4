package booking

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"cabinbooking/internal/domain"
)

var exportHeader = []string{
	"ID", "Cabin", "Capacity", "Status", "Requester", "RequesterID",
	"GroupMembers", "DurationHours", "Timestamp", "CompletionTime", "ApprovedBy",
}

// ExportFilename names an export produced on day.
func ExportFilename(day time.Time) string {
	return fmt.Sprintf("bookings-export-%s.csv", day.UTC().Format("2006-01-02"))
}

// WriteCSV renders bookings in export format. Requester and GroupMembers are
// always quoted; records without a valid timestamp are skipped. An empty set
// yields ErrNothingToExport and writes nothing.
func WriteCSV(w io.Writer, bookings []domain.Booking) error {
	if len(bookings) == 0 {
		return ErrNothingToExport
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(exportHeader, ",")); err != nil {
		return err
	}
	for _, b := range bookings {
		if b.Timestamp.IsZero() {
			continue
		}
		if _, err := bw.WriteString("\n" + csvRow(b)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func csvRow(b domain.Booking) string {
	completion := ""
	if b.CompletionTime != nil {
		completion = isoMillis(*b.CompletionTime)
	}
	return strings.Join([]string{
		b.ID,
		b.CabinID,
		strconv.Itoa(b.Capacity),
		string(b.Status),
		quote(b.RequesterName),
		b.RequesterID,
		quote(strings.Join(b.GroupMembers, "; ")),
		strconv.Itoa(b.DurationHours),
		isoMillis(b.Timestamp),
		completion,
		b.ApprovedBy,
	}, ",")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func isoMillis(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Export writes the current snapshot as CSV.
func (s *Service) Export(w io.Writer) error {
	return WriteCSV(w, s.snapshots.Snapshot().Bookings())
}
