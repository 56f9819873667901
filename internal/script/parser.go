/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

var (
	reMove  = regexp.MustCompile(`^(?i)move\s+(\S+)\s+(\S+)\s*$`)
	reClick = regexp.MustCompile(`^(?i)click\s*$`)
)

// Parse reads a journal. Malformed lines are reported and skipped so one bad
// line does not hide the rest of the file.
func Parse(input string) ([]Event, []Error) {
	var events []Event
	var errs []Error

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimRight(scanner.Text(), "\r\n")
		trim := strings.TrimSpace(raw)
		if trim == "" || strings.HasPrefix(trim, "#") || strings.HasPrefix(trim, ";") {
			continue
		}
		col := len(raw) - len(strings.TrimLeft(raw, " \t")) + 1

		if reClick.MatchString(trim) {
			events = append(events, Event{Kind: Click, LineNo: lineNo})
			continue
		}
		if m := reMove.FindStringSubmatch(trim); m != nil {
			x, errX := strconv.ParseFloat(m[1], 64)
			y, errY := strconv.ParseFloat(m[2], 64)
			if errX != nil || errY != nil {
				errs = append(errs, Error{Line: lineNo, Column: col, Message: "invalid coordinates: " + m[1] + " " + m[2]})
				continue
			}
			e := MoveTo(x, y)
			e.LineNo = lineNo
			events = append(events, e)
			continue
		}
		errs = append(errs, Error{Line: lineNo, Column: col, Message: "unknown event: " + trim})
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}
	return events, errs
}

// Format renders events in the text form accepted by Parse. Coordinates use
// the shortest representation that round-trips exactly.
func Format(events []Event) string {
	var b strings.Builder
	b.WriteString("# paperfold journal\n")
	for _, e := range events {
		switch e.Kind {
		case Click:
			b.WriteString("click\n")
		default:
			b.WriteString("move ")
			b.WriteString(strconv.FormatFloat(e.At.X, 'g', -1, 64))
			b.WriteString(" ")
			b.WriteString(strconv.FormatFloat(e.At.Y, 'g', -1, 64))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func itoa(n int) string { return strconv.Itoa(n) }
