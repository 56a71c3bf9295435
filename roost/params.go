// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package roost

// Constants of the ledger.
const (
	DaySeconds uint64 = 86400 // accrual advances in whole elapsed days.

	InitialLockPeriod uint64 = 7 * DaySeconds // minimum hold duration before withdrawal.
)

// Keys of governance params.
var (
	KeyScheduleAdmin = BytesToBytes32([]byte("schedule-admin"))
	KeyLockPeriod    = BytesToBytes32([]byte("lock-period"))
)
