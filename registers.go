// go-lr2021
// Copyright (c) 2025 The go-lr2021 Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-lr2021.
//
// go-lr2021 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-lr2021 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-lr2021; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package lr2021

// Register addresses. These are reachable through ReadRegister,
// WriteRegister and WriteField.
const (
	// AddrAdcCtrl controls the ADC.
	AddrAdcCtrl = 0xF40200
	// AddrAafCfg configures the anti-aliasing filter.
	AddrAafCfg = 0xF40430
	// AddrPaCtrl controls the power amplifier.
	AddrPaCtrl = 0xF40300
	// AddrPaLock gates writes to protected PA fields.
	AddrPaLock = 0xF40338
	// AddrOcpRetention holds the over-current threshold across sleep.
	AddrOcpRetention = 0x80093C
	// AddrSimoCfg configures the DC-DC converter.
	AddrSimoCfg = 0xF20024
	// AddrSimoFreq sets the DC-DC switching frequency.
	AddrSimoFreq = 0x80004C
	// AddrFreqRf holds the programmed RF frequency.
	AddrFreqRf = 0xF40144
	// AddrOokDetect tunes OOK detection.
	AddrOokDetect = 0xF30E14
	// AddrCpfskDetect tunes CPFSK detection.
	AddrCpfskDetect = 0xF30C14
	// AddrCpfskDemod tunes CPFSK demodulation.
	AddrCpfskDemod = 0xF30C28
	// AddrLoraParam holds the LoRa modulation parameters.
	AddrLoraParam = 0xF30A14
	// AddrLoraTxCfg1 holds LoRa TX configuration.
	AddrLoraTxCfg1 = 0xF30A24
	// AddrLoraRxCfg holds LoRa RX configuration.
	AddrLoraRxCfg = 0xF30A2C
	// AddrLoraRangingExtra holds additional ranging configuration.
	AddrLoraRangingExtra = 0xF30B50
	// AddrLoraTimingSync holds LoRa timing synchronization settings.
	AddrLoraTimingSync = 0xF30B64
	// AddrPacketCfg holds common packet engine configuration.
	AddrPacketCfg = 0xF30844
)

// paLockKey unlocks the protected PA configuration fields.
const paLockKey = 0xC0DE
