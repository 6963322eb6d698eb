package api_test

import (
	"fmt"

	"github.com/pulumi-idp/idp-console/internal/api"
)

// ExampleLogLine_DisplayTimestamp shows which timestamps render
func ExampleLogLine_DisplayTimestamp() {
	lines := []api.LogLine{
		{Line: "no timestamp"},
		{Line: "zero sentinel", Timestamp: "0001-01-01T00:00:00Z"},
		{Line: "garbage", Timestamp: "not-a-time"},
	}

	for _, line := range lines {
		fmt.Printf("%q\n", line.DisplayTimestamp())
	}

	// Output:
	// ""
	// ""
	// ""
}

// ExampleStatusError shows how non-2xx responses read
func ExampleStatusError() {
	err := &api.StatusError{StatusCode: 500, Message: "failed to get deployment logs"}
	fmt.Println(err)

	// Output:
	// API error (500): failed to get deployment logs
}
