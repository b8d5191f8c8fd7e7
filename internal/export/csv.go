// Package export renders audit data for download.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/present"
)

var activityColumns = []string{
	"csv.id",
	"csv.user",
	"csv.role",
	"csv.action",
	"csv.target",
	"csv.targetType",
	"csv.details",
	"csv.ipAddress",
	"csv.timestamp",
}

// ActivityCSVFilename names an export produced at now.
func ActivityCSVFilename(now time.Time) string {
	return fmt.Sprintf("user-activity-logs-%s.csv", now.UTC().Format("2006-01-02"))
}

// WriteActivityCSV writes a header line plus one line per log. Every field is
// quoted; lines are separated by "\n" with no trailing newline. Line breaks
// inside a field become spaces so each log stays on one line.
func WriteActivityCSV(w io.Writer, logs []domain.ActivityLog, tr *i18n.Translator, locale string, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	bw := bufio.NewWriter(w)

	header := make([]string, len(activityColumns))
	for i, key := range activityColumns {
		header[i] = tr.T(locale, key, nil)
	}
	writeRow(bw, header)

	for _, l := range logs {
		bw.WriteByte('\n')
		writeRow(bw, []string{
			l.ID,
			l.UserName,
			string(l.UserRole),
			string(l.Action),
			l.Target,
			l.TargetType,
			l.Details,
			l.IPAddress,
			present.FormatDateTime(l.Timestamp.In(loc), locale),
		})
	}
	return bw.Flush()
}

var cellEscaper = strings.NewReplacer(`"`, `""`, "\r\n", " ", "\n", " ", "\r", " ")

func writeRow(w *bufio.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(cellEscaper.Replace(c))
		w.WriteByte('"')
	}
}
