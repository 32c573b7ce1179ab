// Package labels resolves classifier class indices to display strings. Two
// label sources are supported: indexed line files shipped with Teachable
// Machine style models, and the header-skipped class-map CSV shipped with
// the general-purpose model.
package labels

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Table is an ordered list of display labels indexed by class id. A table
// may legitimately be shorter than the model's score vector; extra trailing
// scores are never indexed.
type Table []string

// Resolve returns the label for a class index. Indices outside the table
// report ok=false and are skipped by callers, not treated as errors.
func (t Table) Resolve(index int) (string, bool) {
	if index < 0 || index >= len(t) {
		return "", false
	}
	return t[index], true
}

// ParseLines reads an indexed label file where each non-blank line is
// "<index> <name...>". The leading numeric token is stripped; the table
// position is the line's order in the file, not the embedded numeral.
func ParseLines(r io.Reader) (Table, error) {
	var table Table
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 1 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				line = strings.Join(fields[1:], " ")
			}
		}
		table = append(table, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("labels: read line file: %w", err)
	}
	return table, nil
}

// ParseCSV reads a class-map CSV whose last column is the English class
// name. The first record is a header and is skipped. Quoted names that
// contain commas ("Violin, fiddle") stay intact.
func ParseCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("labels: read csv: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	table := make(Table, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		table = append(table, record[len(record)-1])
	}
	return table, nil
}
