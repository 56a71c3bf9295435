// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages persisted storage slots.
// It follows the flow as below:
//
//	          o
//	          |
//	 [ revertable state ]
//	          |
//	   [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ batched writes ]
//	          |
//	  [ key value store ]
//
// Reads fall through the in-memory revisions down to the store.
// Writes stay journaled until staged and committed in one batch,
// so a failed operation leaves the store untouched.
package state
