package emulator

import (
	"context"
	"errors"
	"io"

	"github.com/activelook-protocol/activelook-go/pkg/transport"
	"github.com/activelook-protocol/activelook-go/pkg/wire"
)

// Serve pumps commands from link into glasses until the context is
// canceled, the link closes or the device shuts down. Malformed frames
// and undecodable commands are answered with a MessageError flow byte,
// the way the firmware reports them; responses echo the query ID of
// the command they answer.
func Serve(ctx context.Context, glasses *Glasses, link transport.CommandReceiver) error {
	if err := link.WriteFlowStatus(transport.FlowCanSend); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		cf, err := link.ReadCommand()
		switch {
		case err == nil:
		case errors.Is(err, transport.ErrNoData):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, transport.ErrFrameTooSmall),
			errors.Is(err, transport.ErrFrameDelimiter),
			errors.Is(err, transport.ErrFrameLengthMismatch),
			errors.Is(err, wire.ErrUnknownCommandID),
			errors.Is(err, wire.ErrShortPayload),
			errors.Is(err, wire.ErrMalformedPayload):
			if err := link.WriteFlowStatus(transport.FlowMessageError); err != nil {
				return err
			}
			continue
		default:
			return err
		}

		resp, ok := glasses.Handle(cf.Command)
		if ok {
			if err := link.WriteResponse(resp, cf.QueryID); err != nil {
				return err
			}
		}
		if glasses.PoweredOff() {
			return nil
		}
	}
}
