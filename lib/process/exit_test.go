// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestReport(t *testing.T) {
	var buffer bytes.Buffer
	report(&buffer, fmt.Errorf("loading config: %w", errors.New("no such file")))
	if got := buffer.String(); got != "error: loading config: no such file\n" {
		t.Errorf("report wrote %q", got)
	}
}
