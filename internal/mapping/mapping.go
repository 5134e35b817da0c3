// Package mapping reads the desired alias state from a service-to-load-balancer CSV file.
package mapping

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// DefaultFile is used when no mapping file is given
const DefaultFile = "./svc_lb_mapping.csv"

// skipMarker in the dns_name column disables a row, unless it is the very first text
const skipMarker = "none"

var (
	// ErrFileNotFound is returned when the mapping file does not exist
	ErrFileNotFound = errors.New("mapping file not found")

	// ErrMalformedRow is matched by every *MalformedRowError
	ErrMalformedRow = errors.New("malformed mapping row")
)

// MalformedRowError reports a data row with fewer than three columns
type MalformedRowError struct {
	Line    int
	Columns int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("%s: line %d has %d column(s), want 3", ErrMalformedRow, e.Line, e.Columns)
}

func (e *MalformedRowError) Is(target error) bool {
	return target == ErrMalformedRow
}

// Record is one desired alias: arec_name, dns_name, cert_id
type Record struct {
	Name          string
	DNSName       string
	CertificateID string
}

// Result is the parsed content of a mapping file
type Result struct {
	Records []Record

	// Read counts every line consumed, header included
	Read    int
	Skipped int
}

// ReadFile parses the mapping file at path
func ReadFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer f.Close()

	return Read(ctx, f)
}

// Read parses mapping CSV from r. The first line is treated as a header.
func Read(ctx context.Context, r io.Reader) (*Result, error) {
	logger := log.FromContext(ctx)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	result := &Result{}
	for header := true; ; header = false {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse mapping file: %w", err)
		}
		result.Read++
		// Line in the input; blank lines never come back as records
		line, _ := reader.FieldPos(0)

		if header {
			logger.V(1).Info("Mapping file columns", "columns", strings.Join(row, ", "))
			continue
		}

		if len(row) < 3 {
			return nil, &MalformedRowError{Line: line, Columns: len(row)}
		}

		record := Record{
			Name:          strings.TrimSpace(row[0]),
			DNSName:       strings.TrimSpace(row[1]),
			CertificateID: strings.TrimSpace(row[2]),
		}
		if Skipped(record.DNSName) {
			result.Skipped++
			logger.V(1).Info("Skipped mapping row", "line", line, "dnsName", record.DNSName)
			continue
		}
		result.Records = append(result.Records, record)
	}

	logger.V(1).Info("Read mapping file",
		"read", result.Read,
		"skipped", result.Skipped,
		"records", len(result.Records))
	return result, nil
}

// Skipped reports whether a dns_name disables its row: the marker must appear
// after the first character, so "east-none" is skipped and "none-east" is not
func Skipped(dnsName string) bool {
	return strings.Index(dnsName, skipMarker) > 0
}

// ForService returns the records whose arec_name equals name, in file order
func ForService(records []Record, name string) []Record {
	var matched []Record
	for _, r := range records {
		if r.Name == name {
			matched = append(matched, r)
		}
	}
	return matched
}
