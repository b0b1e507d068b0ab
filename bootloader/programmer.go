package bootloader

import (
	"fmt"

	"github.com/moffa90/go-hexboot/board"
	"github.com/moffa90/go-hexboot/checksum"
	"github.com/moffa90/go-hexboot/hal"
	"github.com/moffa90/go-hexboot/hexrecord"
)

// Programmer erases and programs the firmware region.
//
// A Programmer exists only while the flash controller is unlocked: Unlock
// returns one and Close locks the controller again, after which every
// method fails with ErrFirmwareLocked. It is the only code in the module
// that erases or programs flash.
//
// Programmer is not safe for concurrent use.
type Programmer struct {
	flash     hal.Flash
	cfg       board.Config
	validator *checksum.Validator
	logger    Logger

	// baseAddress holds the upper 16 bits of the target address, set by
	// extended linear address records
	baseAddress uint32
	closed      bool
}

// Unlock unlocks the flash controller and returns a programmer for the
// firmware region of cfg.
func Unlock(flash hal.Flash, cfg board.Config, logger Logger) (*Programmer, error) {
	if logger == nil {
		logger = NopLogger{}
	}

	if err := flash.Unlock(); err != nil {
		return nil, &ProgramError{Kind: WriteFailed, Status: statusCode(err), Err: err}
	}

	return &Programmer{
		flash:     flash,
		cfg:       cfg,
		validator: checksum.New(flash, cfg),
		logger:    logger,
	}, nil
}

// Close locks the flash controller. It is safe to call more than once.
func (p *Programmer) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	if err := p.flash.Lock(); err != nil {
		return fmt.Errorf("lock flash: %w", err)
	}
	return nil
}

// BaseAddress returns the current upper address window.
func (p *Programmer) BaseAddress() uint32 {
	return p.baseAddress
}

// EraseSector erases logical sector index of the firmware region. Index 0
// is the physical sector Firmware.StartSector.
func (p *Programmer) EraseSector(index uint32) error {
	if p.closed {
		return ErrFirmwareLocked
	}

	if index >= p.cfg.Firmware.SectorCount {
		return &EraseError{Kind: InvalidSector, Sector: index}
	}

	physical := p.cfg.Firmware.StartSector + index
	if err := p.flash.EraseSector(physical); err != nil {
		p.logger.Error("erase failed", "sector", index, "physical", physical, "error", err)
		return &EraseError{Kind: EraseFailed, Sector: index, Status: statusCode(err), Err: err}
	}

	p.logger.Debug("sector erased", "sector", index, "physical", physical)
	return nil
}

// ProcessRecord applies one record:
//   - ExtendedLinearAddress sets the upper 16 address bits
//   - Data programs and verifies the payload
//   - EndOfFile computes the image checksum and stores it
//
// All other record types are accepted and ignored.
func (p *Programmer) ProcessRecord(r hexrecord.Record) error {
	if p.closed {
		return ErrFirmwareLocked
	}

	switch r.Type {
	case hexrecord.ExtendedLinearAddress:
		p.processExtendedLinearAddress(r)
		return nil
	case hexrecord.Data:
		return p.processData(r)
	case hexrecord.EndOfFile:
		return p.processEndOfFile()
	default:
		return nil
	}
}

func (p *Programmer) processExtendedLinearAddress(r hexrecord.Record) {
	p.baseAddress = uint32(r.Data[0])<<24 | uint32(r.Data[1])<<16
	p.logger.Debug("base address", "address", fmt.Sprintf("0x%08X", p.baseAddress))
}

func (p *Programmer) processData(r hexrecord.Record) error {
	address := p.baseAddress | uint32(r.Address)
	length := uint32(r.Length)

	// The checksum word is reserved for the end-of-file record.
	limit := uint64(p.cfg.ChecksumAddress())
	valid := address%hal.WordSize == 0 &&
		address >= p.cfg.Firmware.Start &&
		uint64(address)+uint64(length) <= limit
	if !valid {
		return &ProgramError{Kind: InvalidAddress, Address: address}
	}

	payload := r.Payload()
	for offset := uint32(0); offset < length; offset += hal.WordSize {
		// A trailing partial word keeps its missing bytes erased.
		word := uint32(0xFFFFFFFF)
		for i := uint32(0); i < hal.WordSize && offset+i < length; i++ {
			word &^= 0xFF << (8 * i)
			word |= uint32(payload[offset+i]) << (8 * i)
		}

		if err := p.program(address+offset, word); err != nil {
			return err
		}
	}

	return nil
}

func (p *Programmer) processEndOfFile() error {
	sum := p.validator.Compute()

	if err := p.program(p.cfg.ChecksumAddress(), sum); err != nil {
		return err
	}

	p.logger.Info("image checksum written",
		"address", fmt.Sprintf("0x%08X", p.cfg.ChecksumAddress()),
		"checksum", fmt.Sprintf("0x%08X", sum),
	)
	return nil
}

// program writes one word and verifies it by reading it back.
func (p *Programmer) program(address, word uint32) error {
	if err := p.flash.ProgramWord(address, word); err != nil {
		p.logger.Error("program failed", "address", fmt.Sprintf("0x%08X", address), "error", err)
		return &ProgramError{Kind: WriteFailed, Address: address, Status: statusCode(err), Err: err}
	}

	if readback := p.flash.ReadWord(address); readback != word {
		p.logger.Error("readback mismatch",
			"address", fmt.Sprintf("0x%08X", address),
			"wrote", fmt.Sprintf("0x%08X", word),
			"read", fmt.Sprintf("0x%08X", readback),
		)
		return &ProgramError{Kind: DataMismatch, Address: address, Wrote: word, Read: readback}
	}

	return nil
}
