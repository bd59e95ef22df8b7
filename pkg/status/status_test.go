package status

import "testing"

func TestMessage(t *testing.T) {
	testCases := []struct {
		statusCode int
		expected   string
	}{
		{statusCode: Ok, expected: "OK"},
		{statusCode: SwitchingProtocols, expected: "SwitchingProtocols"},
		{statusCode: MovedTemporarily, expected: "Moved Temporarily"},
		{statusCode: TooManyRedirects, expected: "Too Many Redirects"},
		{statusCode: NotFound, expected: "Not Found"},
		{statusCode: RangeNotSatisfiable, expected: "Range Not Satisfyable"},
		{statusCode: InternalServerError, expected: "Internal Server Error"},
	}

	for _, testCase := range testCases {
		if message := Message(testCase.statusCode); message != testCase.expected {
			t.Errorf("status %d: expected %q, got %q", testCase.statusCode, testCase.expected, message)
		}
	}
}

func TestMessage_UnknownStatusCode(t *testing.T) {
	if message := Message(599); message != "" {
		t.Errorf("expected an empty message for an unknown status code, got %q", message)
	}
}
