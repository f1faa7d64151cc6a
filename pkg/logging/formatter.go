/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: formatter.go
Description: Custom log formatter for genschema. Single-line entries with an optional
timestamp, a colored level tag, the caller and the structured fields sorted by key.
*/

package logging

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// CustomFormatter provides compact, readable console output
type CustomFormatter struct {
	Timestamp bool
	Caller    bool
	Colors    bool
}

// Format formats a log entry
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if f.Timestamp {
		f.paint(&b, 36, entry.Time.Format("2006-01-02 15:04:05.000"))
		b.WriteByte(' ')
	}

	f.paint(&b, levelColor(entry.Level), fmt.Sprintf("%-5s", strings.ToUpper(entry.Level.String())))
	b.WriteByte(' ')

	if f.Caller && entry.HasCaller() {
		f.paint(&b, 33, fmt.Sprintf("[%s:%d]", entry.Caller.File, entry.Caller.Line))
		b.WriteByte(' ')
	}

	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		f.paint(&b, 34, k)
		b.WriteByte('=')
		b.WriteString(formatValue(entry.Data[k]))
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func (f *CustomFormatter) paint(b *strings.Builder, color int, text string) {
	if !f.Colors {
		b.WriteString(text)
		return
	}
	fmt.Fprintf(b, "\033[%dm%s\033[0m", color, text)
}

// levelColor returns the ANSI color code for a log level
func levelColor(level logrus.Level) int {
	switch level {
	case logrus.TraceLevel, logrus.DebugLevel:
		return 37
	case logrus.InfoLevel:
		return 32
	case logrus.WarnLevel:
		return 33
	default:
		return 31
	}
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t\n\"") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case error:
		return fmt.Sprintf("%q", val.Error())
	default:
		return fmt.Sprintf("%v", val)
	}
}
