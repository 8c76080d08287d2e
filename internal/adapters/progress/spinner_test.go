package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

func TestSpinnerSink_NonInteractive(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	sink := NewSpinnerSink(&buf, false)
	ctx := context.Background()

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "deploying", Message: "Deploying FundMe", Spinner: true})
	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "waiting", Message: "Waiting for 0x01 to be mined", Spinner: true})
	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "waiting", Message: "Waiting for 0x01 to be mined", Spinner: true})
	sink.Info("done")

	assert.Equal(t, "Deploying FundMe\nWaiting for 0x01 to be mined\ndone\n", buf.String())
}

func TestSpinnerSink_InteractivePlainEvent(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	sink := NewSpinnerSink(&buf, true)

	sink.OnProgress(context.Background(), usecase.ProgressEvent{Message: "Included in block 3", Spinner: false})
	sink.Stop()
	assert.Contains(t, buf.String(), "Included in block 3")
}
