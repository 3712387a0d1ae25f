// Package metadata derives session date, chamber and instance from the
// leading portion of the clean text.
package metadata

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gaurav-prasanna/actapipe/core"
)

// HeaderWindow is how many characters of clean text are inspected for
// chamber and instance.
const HeaderWindow = 1000

// Months is ordered: index+1 is the month number.
var Months = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var dateRe = regexp.MustCompile(`(?i)(\d{1,2})\s+de\s+(` + strings.Join(Months, "|") + `)\s+de\s+(\d{4})`)

// Extract builds the session metadata. It never fails: a missing date is
// a nil Date and chamber/instance fall back to senate/plenary.
func Extract(clean string) core.SessionMetadata {
	header := collapseHeader(clean)
	return core.SessionMetadata{
		Date:     FindDate(clean),
		Chamber:  chamber(header),
		Instance: instance(header),
	}
}

// FindDate returns the first valid "<d> de <month> de <yyyy>" date in text.
// Matches that are not real calendar dates (31 de febrero) are skipped.
func FindDate(text string) *core.Date {
	for _, m := range dateRe.FindAllStringSubmatch(text, -1) {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		month := monthNumber(m[2])
		if month == 0 {
			continue
		}
		d, err := core.NewDate(year, month, day)
		if err != nil {
			continue
		}
		return &d
	}
	return nil
}

func monthNumber(name string) time.Month {
	name = strings.ToLower(name)
	for i, m := range Months {
		if m == name {
			return time.Month(i + 1)
		}
	}
	return 0
}

// collapseHeader takes the first HeaderWindow characters, removes all
// whitespace and uppercases the result.
func collapseHeader(text string) string {
	var sb strings.Builder
	n := 0
	for _, r := range text {
		if n == HeaderWindow {
			break
		}
		n++
		if unicode.IsSpace(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return strings.ToUpper(sb.String())
}

func chamber(header string) core.Chamber {
	if strings.Contains(header, "CÁMARADEREPRESENTANTES") {
		return core.ChamberHouse
	}
	return core.ChamberSenate
}

func instance(header string) core.Instance {
	if strings.Contains(header, "COMISIÓN") || strings.Contains(header, "COMISION") {
		return core.InstanceCommittee
	}
	return core.InstancePlenary
}
