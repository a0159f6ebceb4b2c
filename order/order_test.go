package order_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/bitseq/order"
)

// reversedNibbles is a valid custom policy: index i lands on width-1-i for the
// low half of each byte and stays in place for the high half.
type reversedNibbles struct{}

func (reversedNibbles) Name() string { return "reversedNibbles" }

func (reversedNibbles) At(index, width uint8) uint8 {
	if index%8 < 4 {
		return index - index%8 + 3 - index%8
	}
	return index
}

type broken struct{}

func (broken) Name() string { return "broken" }

func (broken) At(index, _ uint8) uint8 { return index / 2 }

func TestAt(t *testing.T) {
	req := require.New(t)

	req.EqualValues(0, order.Lsb0{}.At(0, 8))
	req.EqualValues(5, order.Lsb0{}.At(5, 32))
	req.EqualValues(7, order.Msb0{}.At(0, 8))
	req.EqualValues(0, order.Msb0{}.At(15, 16))
	req.EqualValues(62, order.Msb0{}.At(1, 64))
}

func TestSelect(t *testing.T) {
	req := require.New(t)

	req.Equal(uint8(0x02), order.Select[uint8, order.Lsb0](1))
	req.Equal(uint8(0x40), order.Select[uint8, order.Msb0](1))
	req.Equal(uint16(0x8000), order.Select[uint16, order.Msb0](0))
}

func TestNames(t *testing.T) {
	req := require.New(t)

	req.Equal("github.com/spacemeshos/bitseq/order.Lsb0", order.NameOf[order.Lsb0]())
	req.Equal("github.com/spacemeshos/bitseq/order.Msb0", order.NameOf[order.Msb0]())
	req.NotEqual(order.NameOf[order.Lsb0](), order.NameOf[order.Msb0]())
}

func TestVerify(t *testing.T) {
	req := require.New(t)

	req.NoError(order.Verify[order.Lsb0]())
	req.NoError(order.Verify[order.Msb0]())
	req.NoError(order.Verify[reversedNibbles]())

	err := order.Verify[broken]()
	var cerr order.ContractError
	req.ErrorAs(err, &cerr)
	req.Equal("broken", cerr.Order)
	req.EqualValues(8, cerr.Width)
	req.EqualValues(1, cerr.Index)
}
