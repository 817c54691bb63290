// Package capture writes the frames that travel on a medium into pcap files
// that regular packet analyzers can open.
package capture

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/hashicorp/go-multierror"

	"github.com/sarchlab/lwsn/sim/hooking"
	"github.com/sarchlab/lwsn/wsn/link"
	"github.com/sarchlab/lwsn/wsn/medium"
	"github.com/sarchlab/lwsn/wsn/relay"
)

// SnapLen is the maximum number of bytes captured per frame.
const SnapLen = 65536

// Epoch is the wall-clock time that virtual time 0 maps to in capture files.
var Epoch = time.Unix(0, 0).UTC()

func init() {
	layers.EthernetTypeMetadata[link.ProtocolRelay] = layers.EnumMetadata{
		DecodeWith: relay.LayerTypeRelay,
		Name:       "LwsnRelay",
		LayerType:  relay.LayerTypeRelay,
	}
}

// Writer is a medium hook that records every frame sent on the medium.
type Writer struct {
	w      *pcapgo.Writer
	closer io.Closer
	err    error
	count  int
}

// NewWriter writes the pcap file header to w and returns a Writer.
func NewWriter(w io.Writer) (*Writer, error) {
	pw := pcapgo.NewWriter(w)

	err := pw.WriteFileHeader(SnapLen, layers.LinkTypeEthernet)
	if err != nil {
		return nil, err
	}

	return &Writer{w: pw}, nil
}

// Create creates the file at path and returns a Writer to it. The file is
// closed by Close.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w, err := NewWriter(f)
	if err != nil {
		return nil, combineErrors(err, f.Close())
	}

	w.closer = f

	return w, nil
}

// Func writes the frame of a medium send.
func (w *Writer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != medium.HookPosSend {
		return
	}

	t, ok := ctx.Item.(medium.Transmission)
	if !ok {
		return
	}

	w.err = combineErrors(w.err, w.write(t))
}

func (w *Writer) write(t medium.Transmission) error {
	frame, err := t.Tag().Frame(t.Packet.Bytes())
	if err != nil {
		return err
	}

	ci := gopacket.CaptureInfo{
		Timestamp:     Epoch.Add(time.Duration(t.Time * float64(time.Second))),
		CaptureLength: len(frame),
		Length:        len(frame),
	}

	if err := w.w.WritePacket(ci, frame); err != nil {
		return err
	}

	w.count++

	return nil
}

// Count returns the number of frames written.
func (w *Writer) Count() int {
	return w.count
}

// Err returns the errors met while writing frames.
func (w *Writer) Err() error {
	return w.err
}

// Close closes the underlying file, if any, and reports all the errors met
// while writing.
func (w *Writer) Close() error {
	err := w.err

	if w.closer != nil {
		err = combineErrors(err, w.closer.Close())
		w.closer = nil
	}

	return err
}

// Frame is a frame read back from a capture file.
type Frame struct {
	Time   time.Duration
	Tag    link.Tag
	Header relay.Header

	// Body is the payload after the relay header. Short frames carry
	// Ethernet padding at the end.
	Body []byte
}

// ReadFrames reads all the relay frames of a capture file. Frames of other
// protocols are skipped.
func ReadFrames(r io.Reader) ([]Frame, error) {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, err
	}

	var frames []Frame

	for {
		data, ci, err := pr.ReadPacketData()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}

		if err != nil {
			return frames, err
		}

		f, ok := decodeFrame(data)
		if !ok {
			continue
		}

		f.Time = ci.Timestamp.Sub(Epoch)
		frames = append(frames, f)
	}
}

func decodeFrame(data []byte) (Frame, bool) {
	pkt := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Default)

	ethLayer := pkt.Layer(layers.LayerTypeEthernet)
	relayLayer := pkt.Layer(relay.LayerTypeRelay)

	if ethLayer == nil || relayLayer == nil {
		return Frame{}, false
	}

	eth := ethLayer.(*layers.Ethernet)
	rl := relayLayer.(*relay.Layer)

	return Frame{
		Tag: link.Tag{
			Src:      link.AddressFromHardware(eth.SrcMAC),
			Dst:      link.AddressFromHardware(eth.DstMAC),
			Protocol: uint16(eth.EthernetType),
		},
		Header: rl.Header,
		Body:   rl.LayerPayload(),
	}, true
}

func combineErrors(errs ...error) (err error) {
	for _, e := range errs {
		switch {
		case e == nil:
		case err == nil:
			err = e
		default:
			err = multierror.Append(err, e)
		}
	}

	return err
}
