package sequencer

import (
	"strings"

	"chordsync-go/logcolors"

	log "github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// MIDISynth plays preview voices through a MIDI output port. A missing
// driver or port degrades to a silent no-op synth so the preview
// controls keep working without MIDI hardware.
type MIDISynth struct {
	driver  *rtmididrv.Driver
	out     drivers.Out
	send    func(midi.Message) error
	channel uint8
}

// NewMIDISynth opens the first output port whose name starts with
// portName (any port when portName is empty). There's not much to do
// when no port opens, so the synth just stays silent.
func NewMIDISynth(portName string, channel uint8) *MIDISynth {
	m := &MIDISynth{channel: channel & 0x0f}

	m.driver, _ = rtmididrv.New()
	if m.driver == nil {
		log.Warnf("%s No MIDI driver available, preview will be silent", logcolors.LogMIDI)
		return m
	}

	outs, err := m.driver.Outs()
	if err != nil || len(outs) == 0 {
		log.Warnf("%s No MIDI output ports found, preview will be silent", logcolors.LogMIDI)
		return m
	}

	var out drivers.Out
	for _, candidate := range outs {
		if portName == "" || strings.HasPrefix(candidate.String(), portName) {
			out = candidate
			break
		}
	}
	if out == nil {
		log.Warnf("%s No MIDI output matching %q, preview will be silent", logcolors.LogMIDI, portName)
		return m
	}

	if err := out.Open(); err != nil {
		log.Warnf("%s Failed to open MIDI output %q: %v", logcolors.LogMIDI, out.String(), err)
		return m
	}

	send, err := midi.SendTo(out)
	if err != nil {
		log.Warnf("%s Failed to attach sender to %q: %v", logcolors.LogMIDI, out.String(), err)
		out.Close()
		return m
	}

	m.out = out
	m.send = send
	log.Infof("%s Preview output on %q (channel %d)", logcolors.LogMIDI, out.String(), m.channel)
	return m
}

func (m *MIDISynth) NoteOn(note, velocity int) {
	if m.send == nil || note < 0 || note > 127 {
		return
	}
	if velocity < 1 {
		velocity = 1
	}
	if velocity > 127 {
		velocity = 127
	}
	if err := m.send(midi.NoteOn(m.channel, uint8(note), uint8(velocity))); err != nil {
		log.Debugf("%s NoteOn %d failed: %v", logcolors.LogMIDI, note, err)
	}
}

func (m *MIDISynth) NoteOff(note int) {
	if m.send == nil || note < 0 || note > 127 {
		return
	}
	if err := m.send(midi.NoteOff(m.channel, uint8(note))); err != nil {
		log.Debugf("%s NoteOff %d failed: %v", logcolors.LogMIDI, note, err)
	}
}

// Close releases the port and driver.
func (m *MIDISynth) Close() {
	if m.out != nil {
		m.out.Close()
		m.out = nil
		m.send = nil
	}
	if m.driver != nil {
		m.driver.Close()
		m.driver = nil
	}
}
