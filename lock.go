package silo

import "github.com/TheBitDrifter/mask"

// maxLockBits is the number of independent lock bits, the width of mask.Mask.
const maxLockBits = 256

// Locked reports whether structural changes to the merged store are currently deferred.
func (sto *Store) Locked() bool {
	return sto.cursors > 0 || sto.dispatching > 0 || sto.locks != (mask.Mask{})
}

// AddLock marks bit as held. Any number of independent bits below 256 may be held at once.
func (sto *Store) AddLock(bit uint32) error {
	if bit >= maxLockBits {
		return InvalidLockBitError{Bit: bit, Limit: maxLockBits}
	}
	sto.locks.Mark(bit)
	return nil
}

// RemoveLock releases bit. Releasing the last lock runs every queued operation.
func (sto *Store) RemoveLock(bit uint32) error {
	if bit >= maxLockBits {
		return InvalidLockBitError{Bit: bit, Limit: maxLockBits}
	}
	sto.locks.Unmark(bit)
	return sto.unlocked()
}

func (sto *Store) unlocked() error {
	if sto.Locked() || sto.disposed {
		return nil
	}
	return sto.processOperationQueue()
}
