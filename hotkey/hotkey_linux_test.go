//go:build linux

package hotkey

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

type ev struct {
	typ, code uint16
	value     int32
}

func encode(evs ...ev) []byte {
	buf := make([]byte, 0, len(evs)*inputEventSize)
	for _, e := range evs {
		rec := make([]byte, inputEventSize)
		binary.LittleEndian.PutUint16(rec[16:], e.typ)
		binary.LittleEndian.PutUint16(rec[18:], e.code)
		binary.LittleEndian.PutUint32(rec[20:], uint32(e.value))
		buf = append(buf, rec...)
	}
	return buf
}

func edges(buf []byte) []comboEdge {
	var c combo
	var out []comboEdge
	decode(buf, func(typ, code uint16, value int32) {
		if e := c.feed(typ, code, value); e != comboNone {
			out = append(out, e)
		}
	})
	return out
}

func TestComboPressRelease(t *testing.T) {
	buf := encode(
		ev{evKey, keyLCtrl, keyPress},
		ev{evKey, keyRShift, keyPress},
		ev{evKey, keySpace, keyPress},
		ev{evKey, keySpace, 2}, // autorepeat
		ev{evKey, keySpace, keyRelease},
	)
	assert.Equal(t, []comboEdge{comboDown, comboUp}, edges(buf))
}

func TestComboNeedsBothModifiers(t *testing.T) {
	buf := encode(
		ev{evKey, keyLCtrl, keyPress},
		ev{evKey, keySpace, keyPress},
		ev{evKey, keySpace, keyRelease},
		ev{evKey, keyLCtrl, keyRelease},
		ev{evKey, keyLShift, keyPress},
		ev{evKey, keySpace, keyPress},
		ev{evKey, keySpace, keyRelease},
	)
	assert.Empty(t, edges(buf))
}

func TestComboReleaseAfterModifiersUp(t *testing.T) {
	buf := encode(
		ev{evKey, keyLCtrl, keyPress},
		ev{evKey, keyLShift, keyPress},
		ev{evKey, keySpace, keyPress},
		ev{evKey, keyLCtrl, keyRelease},
		ev{evKey, keyLShift, keyRelease},
		ev{evKey, keySpace, keyRelease},
	)
	assert.Equal(t, []comboEdge{comboDown, comboUp}, edges(buf))
}

func TestDecodeIgnoresPartialRecord(t *testing.T) {
	buf := encode(ev{0, 0, 0}, ev{evKey, keySpace, keyPress})
	n := 0
	decode(buf[:len(buf)-1], func(uint16, uint16, int32) { n++ })
	assert.Equal(t, 1, n)
}

func TestNonKeyEventsIgnored(t *testing.T) {
	var c combo
	assert.Equal(t, comboNone, c.feed(4, keySpace, keyPress))
}
