package model

import "time"

// AutoLockAfter: ledger harian otomatis terkunci 24 jam setelah dibuat.
const AutoLockAfter = 24 * time.Hour

// EffectiveLock menghitung status kunci efektif tanpa menyentuh DB:
// kunci tersimpan ATAU umur baris sudah melewati ambang auto-lock.
// Fungsi murni; pemanggil memutuskan kapan flag disimpan.
func EffectiveLock(createdAt time.Time, storedLock bool, now time.Time) bool {
	if storedLock {
		return true
	}
	return now.After(createdAt.Add(AutoLockAfter))
}

// EffectivelyLocked versi method untuk baris yang sudah dimuat.
func (m *AttendanceModel) EffectivelyLocked(now time.Time) bool {
	return EffectiveLock(m.AttendanceCreatedAt, m.AttendanceIsLocked, now)
}
