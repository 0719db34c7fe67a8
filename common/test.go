package common

import (
	"fmt"
	"github.com/hauke96/sigolo/v2"
	"math"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

func AssertEqual(t *testing.T, expected any, actual any) {
	t.Helper()

	expectedString, expectedIsString := expected.(string)
	actualString, actualIsString := actual.(string)

	if reflect.DeepEqual(expected, actual) {
		return
	}

	if expectedIsString && actualIsString {
		assertEqualStrings(t, expectedString, actualString)
		return
	}

	sigolo.Errorb(1, "Expect to be equal.\nExpected: %+v\n----------\nActual  : %+v\n", expected, actual)
	t.Fail()
}

func AssertApprox[T float32 | float64](t *testing.T, expected T, actual T, accuracy T) {
	t.Helper()
	if math.Abs(float64(expected-actual)) > float64(accuracy) {
		sigolo.Errorb(1, "Expected %v to be within %v of %v", actual, accuracy, expected)
		t.Fail()
	}
}

// AssertElementsMatch checks that both slices contain the same elements with the same multiplicity, regardless of
// their order.
func AssertElementsMatch[T comparable](t *testing.T, expected []T, actual []T) {
	t.Helper()

	counts := map[T]int{}
	for _, e := range expected {
		counts[e]++
	}
	for _, a := range actual {
		counts[a]--
	}

	for element, count := range counts {
		if count != 0 {
			sigolo.Errorb(1, "Expect same elements.\nExpected: %+v\n----------\nActual  : %+v\nFirst difference: %+v (count difference %d)", expected, actual, element, count)
			t.Fail()
			return
		}
	}
}

func AssertLen[T any](t *testing.T, expectedLength int, values []T) {
	t.Helper()
	if len(values) != expectedLength {
		sigolo.Errorb(1, "Expected length %d but got %d: %+v", expectedLength, len(values), values)
		t.Fail()
	}
}

func assertEqualStrings(t *testing.T, expected string, actual string) {
	expected = strings.ReplaceAll(expected, "\n", "\\n\n")
	actual = strings.ReplaceAll(actual, "\n", "\\n\n")

	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	sigolo.Errorb(2, "Expect to be equal.\n|   | %-50s | %-50s |", "Expected", "Actual")
	fmt.Printf("|%s|\n", strings.Repeat("-", 109))

	for i, expectedLine := range expectedLines {
		actualLine := ""
		if len(actualLines) > i {
			actualLine = actualLines[i]
		}

		changeMark := " "
		if actualLine != expectedLine {
			changeMark = "*"
		}

		fmt.Printf("| %s | %-50s | %-50s |\n", changeMark, "\""+expectedLine+"\"", "\""+actualLine+"\"")
	}

	for i := len(expectedLines); i < len(actualLines); i++ {
		fmt.Printf("| * | %-50s | %-50s |\n", "", "\""+actualLines[i]+"\"")
	}

	t.Fail()
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func AssertNil(t *testing.T, value any) {
	t.Helper()
	if !isNil(value) {
		sigolo.Errorb(1, "Expect to be 'nil' but was: %#v", value)
		t.Fail()
	}
}

func AssertNotNil(t *testing.T, value any) {
	t.Helper()
	if isNil(value) {
		sigolo.Errorb(1, "Expect NOT to be 'nil' but was: %#v", value)
		t.Fail()
	}
}

func AssertError(t *testing.T, expectedMessage string, err error) {
	t.Helper()
	if err == nil {
		sigolo.Errorb(1, "Expected error with message: %s\nActual error: nil", expectedMessage)
		t.Fail()
		return
	}
	if expectedMessage != err.Error() {
		sigolo.Errorb(1, "Expected message: %s\nActual error message: %s", expectedMessage, err.Error())
		t.Fail()
	}
}

func AssertTrue(t *testing.T, b bool) {
	t.Helper()
	if !b {
		sigolo.Errorb(1, "Expected true but got false")
		t.Fail()
	}
}

func AssertFalse(t *testing.T, b bool) {
	t.Helper()
	if b {
		sigolo.Errorb(1, "Expected false but got true")
		t.Fail()
	}
}

func AssertMatch(t *testing.T, regexString string, content string) {
	t.Helper()
	regex := regexp.MustCompile(regexString)
	if !regex.MatchString(content) {
		sigolo.Errorb(1, "Expected to match\nRegex: %s\nContent: %s", regexString, content)
		t.Fail()
	}
}

// AssertPanics runs the given function and fails the test when it returns normally.
func AssertPanics(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			sigolo.Errorb(2, "Expected a panic but function returned normally")
			t.Fail()
		}
	}()
	f()
}
