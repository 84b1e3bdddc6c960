// Package fitsio implements the narrow slice of the FITS format spec.md §4.3
// and §6 require: a PRIMARY HDU carrying a 2-D float32 image plus the
// keywords named in §6, and a single BINTABLE HDU extension carrying two
// vector columns, TIME (seconds) and FREQUENCY (MHz).
//
// No FITS library exists anywhere in the retrieval pack this module was built
// from (see SPEC_FULL.md's Domain Stack section), so this is a from-scratch
// minimal codec scoped to exactly the layout SPECTRE needs — not a general
// FITS implementation. It writes real 2880-byte-aligned header/data blocks so
// the files remain structurally valid FITS, but only understands the one
// extension shape it produces.
package fitsio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const blockSize = 2880
const cardSize = 80

// Image is the PRIMARY HDU payload: a dynamic_spectra[F][T] image plus the
// keyword set spec.md §6 names.
type Image struct {
	Data      [][]float32 // Data[frequency][time]
	Keywords  []Keyword   // in write order; BUNIT/DATE-OBS/TIME-OBS are expected among these
}

// Keyword is a single FITS header card's keyword/value pair. Values are
// pre-formatted strings (quoted for string values by the caller via
// StringKeyword/FloatKeyword helpers).
type Keyword struct {
	Name  string
	Value string
}

// StringKeyword formats a FITS string-valued card.
func StringKeyword(name, value string) Keyword {
	return Keyword{Name: name, Value: "'" + value + "'"}
}

// FloatKeyword formats a FITS float-valued card.
func FloatKeyword(name string, value float64) Keyword {
	return Keyword{Name: name, Value: strconv.FormatFloat(value, 'G', -1, 64)}
}

// BinTable is the single extension HDU: two float32 vector columns, TIME and
// FREQUENCY, stored as one row each holding the full array (an astropy-style
// vector column).
type BinTable struct {
	Time      []float32 // seconds
	Frequency []float32 // MHz (Hz→MHz on write; MHz→Hz on read is the caller's concern)
}

// Write serialises img and table to w as a two-HDU FITS file.
func Write(w io.Writer, img Image, table BinTable) error {
	rows := len(img.Data)
	cols := 0
	if rows > 0 {
		cols = len(img.Data[0])
	}

	header := []Keyword{
		{Name: "SIMPLE", Value: "T"},
		{Name: "BITPIX", Value: "-32"},
		{Name: "NAXIS", Value: "2"},
		{Name: "NAXIS1", Value: strconv.Itoa(cols)},
		{Name: "NAXIS2", Value: strconv.Itoa(rows)},
	}
	header = append(header, img.Keywords...)

	if err := writeHeader(w, header); err != nil {
		return fmt.Errorf("fitsio: write primary header: %w", err)
	}

	var buf bytes.Buffer
	for _, row := range img.Data {
		for _, v := range row {
			if err := binary.Write(&buf, binary.BigEndian, v); err != nil {
				return fmt.Errorf("fitsio: encode image data: %w", err)
			}
		}
	}
	if err := writePadded(w, buf.Bytes()); err != nil {
		return fmt.Errorf("fitsio: write primary data: %w", err)
	}

	timeWidth := len(table.Time) * 4
	freqWidth := len(table.Frequency) * 4
	extHeader := []Keyword{
		{Name: "XTENSION", Value: "'BINTABLE'"},
		{Name: "BITPIX", Value: "8"},
		{Name: "NAXIS", Value: "2"},
		{Name: "NAXIS1", Value: strconv.Itoa(timeWidth + freqWidth)},
		{Name: "NAXIS2", Value: "1"},
		{Name: "TFIELDS", Value: "2"},
		{Name: "TTYPE1", Value: "'TIME'"},
		{Name: "TFORM1", Value: fmt.Sprintf("'%dE'", len(table.Time))},
		{Name: "TUNIT1", Value: "'s'"},
		{Name: "TTYPE2", Value: "'FREQUENCY'"},
		{Name: "TFORM2", Value: fmt.Sprintf("'%dE'", len(table.Frequency))},
		{Name: "TUNIT2", Value: "'MHz'"},
	}
	if err := writeHeader(w, extHeader); err != nil {
		return fmt.Errorf("fitsio: write bintable header: %w", err)
	}

	buf.Reset()
	for _, v := range table.Time {
		if err := binary.Write(&buf, binary.BigEndian, v); err != nil {
			return fmt.Errorf("fitsio: encode time column: %w", err)
		}
	}
	for _, v := range table.Frequency {
		if err := binary.Write(&buf, binary.BigEndian, v); err != nil {
			return fmt.Errorf("fitsio: encode frequency column: %w", err)
		}
	}
	return writePadded(w, buf.Bytes())
}

func writeHeader(w io.Writer, cards []Keyword) error {
	var buf bytes.Buffer
	for _, c := range cards {
		card := fmt.Sprintf("%-8s= %s", c.Name, c.Value)
		if len(card) > cardSize {
			card = card[:cardSize]
		}
		buf.WriteString(padRight(card, cardSize))
	}
	buf.WriteString(padRight("END", cardSize))
	return writePaddedWith(w, buf.Bytes(), ' ')
}

func writePadded(w io.Writer, data []byte) error {
	return writePaddedWith(w, data, 0)
}

func writePaddedWith(w io.Writer, data []byte, fill byte) error {
	padding := (blockSize - len(data)%blockSize) % blockSize
	if _, err := w.Write(data); err != nil {
		return err
	}
	if padding > 0 {
		if _, err := w.Write(bytes.Repeat([]byte{fill}, padding)); err != nil {
			return err
		}
	}
	return nil
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}
