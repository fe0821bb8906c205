package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/finscore/finscore/internal/contract"
	"github.com/finscore/finscore/schema"
)

// PrintStoreStatus prints statement store status information.
func PrintStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeStoreStatusText(w, status)
	}, "Wrote text")
}

func writeStoreStatusText(w io.Writer, status schema.StoreStatus) error {
	lines := []string{
		fmt.Sprintf("Store Backend: %s", status.Backend),
		fmt.Sprintf("Connected: %t", status.Connected),
	}
	if status.Connected {
		lines = append(lines, fmt.Sprintf("Total Entries: %d", status.TotalEntries))
		if status.TotalEntries > 0 {
			lines = append(lines,
				fmt.Sprintf("Last Import: %s", status.LastEntryTime.Format("2006-01-02 15:04:05")),
				fmt.Sprintf("Oldest Import: %s", status.OldestEntryTime.Format("2006-01-02 15:04:05")),
				fmt.Sprintf("Tickers: %s", strings.Join(status.Tickers, ", ")),
			)
		}
		lines = append(lines, fmt.Sprintf("Table Size: %d bytes", status.TableSizeBytes))
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
