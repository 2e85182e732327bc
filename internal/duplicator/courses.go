package duplicator

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	apperrors "survey-duplicator/internal/common/errors"
)

const maxCourseLineLength = 1 << 20

// LoadCourses reads the course list at path.
func LoadCourses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewFileError(path, err)
	}
	defer f.Close()

	courses, err := ReadCourses(f)
	if err != nil {
		return nil, apperrors.NewFileError(path, err)
	}
	return courses, nil
}

// ReadCourses returns one course per line. Each full line is the identifier:
// no trimming or delimiter parsing beyond dropping the line terminator
// ("\n" or "\r\n"). A final unterminated line counts; a trailing newline does
// not add an empty course.
func ReadCourses(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxCourseLineLength)

	var courses []string
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if !utf8.ValidString(text) {
			return nil, fmt.Errorf("line %d is not valid UTF-8", line)
		}
		courses = append(courses, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read after line %d: %w", line, err)
	}

	return courses, nil
}

// WritePairs prints "<course>,<surveyId>" per pair, in order, with no header.
func WritePairs(w io.Writer, pairs []CoursePair) error {
	bw := bufio.NewWriter(w)
	for _, p := range pairs {
		if _, err := fmt.Fprintf(bw, "%s,%s\n", p.Course, p.SurveyID); err != nil {
			return err
		}
	}
	return bw.Flush()
}
