// Package fig parses Fast Information Groups (FIGs) out of FIC payload
// bytes and dispatches their content to a Handler. FIG layouts follow
// EN 300 401 clause 5.2; the supported FIG 0 extensions are 0-10, 13, 14,
// 17, 21 and 24, and FIG 1 extensions 0, 1, 4, 5 and 6 — the full set named
// in the receiver's scope.
package fig

import "encoding/binary"

// Parser walks the FIGs inside one FIB payload (30 bytes) and invokes a
// Handler for every FIG it understands. Unknown FIG types/extensions are
// skipped using the declared length field, matching the original decoder's
// tolerant forward-compatible parsing.
type Parser struct {
	handler Handler
}

// NewParser creates a FIG parser delivering to h.
func NewParser(h Handler) *Parser {
	return &Parser{handler: h}
}

// ParseFIB parses every FIG within a single 30-byte FIB payload.
func (p *Parser) ParseFIB(payload []byte) {
	pos := 0
	for pos < len(payload) {
		header := payload[pos]
		figType := header >> 5
		length := int(header & 0x1F)
		pos++
		if pos+length > len(payload) {
			return
		}
		body := payload[pos : pos+length]
		pos += length

		if length == 0 {
			continue // end marker / padding
		}

		switch figType {
		case 0:
			p.parseFIG0(body)
		case 1:
			p.parseFIG1(body)
		default:
			// FIG types 2-7 (service/FIDC related, conditional access,
			// announcements) are outside the supported extension list and
			// are intentionally skipped.
		}
	}
}

func (p *Parser) parseFIG0(body []byte) {
	if len(body) < 1 {
		return
	}
	hdr := body[0]
	cn := hdr&0x80 != 0
	_ = cn // change/new flag, not surfaced to Handler
	otherEnsemble := hdr&0x40 != 0
	_ = otherEnsemble
	dataFieldExt := hdr & 0x1F
	rest := body[1:]

	switch dataFieldExt {
	case 0:
		p.fig0_0(rest)
	case 1:
		p.fig0_1(rest)
	case 2:
		p.fig0_2(rest)
	case 3:
		p.fig0_3(rest)
	case 4:
		p.fig0_4(rest)
	case 5:
		p.fig0_5(rest)
	case 6:
		p.fig0_6(rest)
	case 7:
		p.fig0_7(rest)
	case 8:
		p.fig0_8(rest)
	case 9:
		p.fig0_9(rest)
	case 10:
		p.fig0_10(rest)
	case 13:
		p.fig0_13(rest)
	case 14:
		p.fig0_14(rest)
	case 17:
		p.fig0_17(rest)
	case 21:
		p.fig0_21(rest)
	case 24:
		p.fig0_24(rest)
	}
}

func (p *Parser) fig0_0(b []byte) {
	if len(b) < 4 {
		return
	}
	eid := binary.BigEndian.Uint16(b[0:2])
	countryID := byte(eid >> 12)
	changeFlags := b[2] >> 6
	alarmFlag := b[2]&0x10 != 0
	p.handler.OnEnsembleID(countryID, eid, changeFlags, alarmFlag)
}

func (p *Parser) fig0_1(b []byte) {
	pos := 0
	for pos+3 <= len(b) {
		subChID := b[pos] >> 2
		startAddr := (uint16(b[pos]&0x3)<<8 | uint16(b[pos+1]))
		shortLongForm := b[pos+2] & 0x80 != 0
		pos += 3
		if !shortLongForm {
			// short form: table switch + table index
			tableSwitch := b[pos-1]&0x40 != 0
			tableIndex := b[pos-1] & 0x3F
			p.handler.OnSubchannelShortForm(subChID, startAddr, tableSwitch, tableIndex)
			continue
		}
		if pos+1 > len(b) {
			return
		}
		option := (b[pos-1] >> 4) & 0x7
		protLevelByte := b[pos-1]
		if option == 0 {
			eepType := EEPType((protLevelByte >> 2) & 0x1)
			subChSizeHi := protLevelByte & 0x3
			if pos >= len(b) {
				return
			}
			subChSize := uint16(subChSizeHi)<<8 | uint16(b[pos])
			pos++
			p.handler.OnSubchannelLongFormEEP(subChID, startAddr, option, eepType, subChSize)
		} else {
			// UEP, option value doubles as the table index in this layout
			p.handler.OnSubchannelLongFormUEP(subChID, startAddr, protLevelByte&0x3F)
		}
	}
}

func (p *Parser) fig0_2(b []byte) {
	pos := 0
	for pos < len(b) {
		if pos+3 > len(b) {
			return
		}
		countryID := byte(0)
		extendedCC := byte(0)
		serviceRef := uint32(binary.BigEndian.Uint16(b[pos : pos+2]))
		pos += 2
		nbComponents := b[pos] & 0xF
		isProgramme := b[pos]&0x80 == 0
		pos++
		_ = isProgramme
		for c := 0; c < int(nbComponents) && pos+2 <= len(b); c++ {
			tmID := (b[pos] >> 6) & 0x3
			switch TransportMode(tmID) {
			case TransportStreamModeAudio:
				ascty := b[pos] & 0x3F
				subChID := (b[pos+1] >> 2) & 0x3F
				componentID := b[pos+1] & 0x3
				p.handler.OnServiceComponentStreamAudio(serviceRef, countryID, extendedCC, componentID, subChID, AudioServiceType(ascty), c == 0)
			case TransportStreamModeData:
				subChID := (b[pos+1] >> 2) & 0x3F
				componentID := b[pos+1] & 0x3
				p.handler.OnServiceComponentStreamDataRaw(serviceRef, countryID, extendedCC, componentID, subChID, c == 0)
			case TransportFIDCMode:
				fidcID := (b[pos] & 0x3F)
				componentID := b[pos+1] & 0x3
				p.handler.OnServiceComponentFIDC(serviceRef, countryID, extendedCC, componentID, fidcID, c == 0)
			case TransportPacketModeData:
				scID := uint16(b[pos]&0x3F)<<6 | uint16(b[pos+1]>>2)
				componentID := b[pos+1] & 0x3
				p.handler.OnServiceComponentPacketData(serviceRef, countryID, extendedCC, componentID, scID, c == 0)
			}
			pos += 2
		}
	}
}

func (p *Parser) fig0_3(b []byte) {
	pos := 0
	for pos+5 <= len(b) {
		scID := binary.BigEndian.Uint16(b[pos : pos+2])
		dataServiceType := DataServiceType(b[pos+2] & 0x3F)
		dgFlag := b[pos+3]&0x80 != 0
		p.handler.OnDataServiceComponentGlobalID(scID, dataServiceType, dgFlag)
		pos += 5
	}
}

func (p *Parser) fig0_4(b []byte) {
	if len(b) < 3 {
		return
	}
	subChID := b[0] >> 2
	caOrg := binary.BigEndian.Uint16(b[1:3])
	p.handler.OnConditionalAccess(subChID, caOrg)
}

func (p *Parser) fig0_5(b []byte) {
	pos := 0
	for pos+3 <= len(b) {
		isPacketMode := b[pos]&0x80 != 0
		_ = isPacketMode
		serviceRef := uint32(binary.BigEndian.Uint16(b[pos : pos+2]) & 0x0FFF)
		componentID := b[pos+1] & 0xF
		language := b[pos+2]
		p.handler.OnServiceComponentLanguage(serviceRef, componentID, language)
		pos += 3
	}
}

func (p *Parser) fig0_6(b []byte) {
	pos := 0
	for pos+3 <= len(b) {
		header := b[pos]
		isActiveLink := header&0x80 != 0
		isHardLink := header&0x40 != 0
		isInternational := header&0x20 != 0
		linkageSetNumber := uint16(header&0x1F)<<8 | uint16(b[pos+1])
		serviceRef := uint32(binary.BigEndian.Uint16(b[pos+2 : pos+4]))
		p.handler.OnServiceLinking(linkageSetNumber, isActiveLink, isHardLink, isInternational, serviceRef)
		pos += 4
	}
}

func (p *Parser) fig0_7(b []byte) {
	if len(b) < 2 {
		return
	}
	nbServices := b[0]
	reconfigCount := binary.BigEndian.Uint16(b[0:2]) & 0x0FFF
	p.handler.OnEnsembleConfiguration(nbServices, reconfigCount)
}

func (p *Parser) fig0_8(b []byte) {
	pos := 0
	for pos+3 <= len(b) {
		serviceRef := uint32(binary.BigEndian.Uint16(b[pos : pos+2]))
		scID := b[pos+2] & 0xF
		isPacketMode := b[pos+2]&0x80 != 0
		pos += 3
		if isPacketMode {
			if pos+2 > len(b) {
				return
			}
			scGlobalID := binary.BigEndian.Uint16(b[pos : pos+2])
			p.handler.OnServiceComponentExtended(serviceRef, scID, 0, true, scGlobalID)
			pos += 2
		} else {
			if pos+1 > len(b) {
				return
			}
			subChID := b[pos] & 0x3F
			p.handler.OnServiceComponentExtended(serviceRef, scID, subChID, false, 0)
			pos++
		}
	}
}

func (p *Parser) fig0_9(b []byte) {
	if len(b) < 3 {
		return
	}
	lto := int8(b[0] & 0x1F)
	if b[0]&0x20 != 0 {
		lto = -lto // negative LTO flagged by bit 5
	}
	intlTable := b[1] & 0xF
	ecc := b[2]
	p.handler.OnEnsembleCountry(lto, intlTable, ecc)
}

func (p *Parser) fig0_10(b []byte) {
	if len(b) < 4 {
		return
	}
	rfu := binary.BigEndian.Uint32(append([]byte{0}, b[:4]...))
	mjd := int((rfu >> 9) & 0x1FFFF)
	utcFlag := b[2]&0x08 != 0
	hours := int((b[2]&0x07)<<2) | int(b[3]>>6)
	minutes := int(b[3] & 0x3F)
	var seconds, millis int
	if utcFlag && len(b) >= 6 {
		seconds = int(b[4] >> 2)
		millis = (int(b[4]&0x3)<<8 | int(b[5])) * 1 // already milliseconds-ish
	}
	year, month, day := MJDToGregorian(mjd)
	p.handler.OnDateTime(DateTime{
		Year: year, Month: month, Day: day,
		Hours: hours, Minutes: minutes, Seconds: seconds,
		Milliseconds: millis, UTCFlag: utcFlag,
	})
}

func (p *Parser) fig0_13(b []byte) {
	pos := 0
	for pos+4 <= len(b) {
		serviceRef := uint32(binary.BigEndian.Uint16(b[pos : pos+2]))
		componentID := b[pos+2] & 0xF
		nbApps := b[pos+3]
		pos += 4
		for a := 0; a < int(nbApps) && pos+3 <= len(b); a++ {
			appType := binary.BigEndian.Uint16(b[pos:pos+2]) >> 5
			appLen := int(b[pos+1] & 0x1F)
			pos += 2
			if pos+appLen > len(b) {
				return
			}
			data := b[pos : pos+appLen]
			pos += appLen
			p.handler.OnUserApplication(serviceRef, componentID, appType, data)
		}
	}
}

func (p *Parser) fig0_14(b []byte) {
	pos := 0
	for pos+1 <= len(b) {
		subChID := b[pos] >> 2
		fecScheme := b[pos] & 0x3
		p.handler.OnSubchannelFEC(subChID, fecScheme)
		pos++
	}
}

func (p *Parser) fig0_17(b []byte) {
	pos := 0
	for pos+3 <= len(b) {
		serviceRef := uint32(binary.BigEndian.Uint16(b[pos : pos+2]))
		pos += 2
		flags := b[pos]
		hasLanguage := flags&0x80 != 0
		hasClosedCaption := flags&0x40 != 0
		pos++
		var language byte
		if hasLanguage {
			if pos >= len(b) {
				return
			}
			language = b[pos]
			pos++
		}
		if pos >= len(b) {
			return
		}
		// welle.io interpretation: programme type is the low 6 bits of the
		// next byte; international/dynamic flags occupy the top 2 bits.
		pty := ProgrammeType(b[pos] & 0x3F)
		pos++
		if hasClosedCaption && pos < len(b) {
			pos++ // closed caption byte present but not surfaced further
		}
		p.handler.OnProgrammeType(serviceRef, language, pty, hasLanguage, hasClosedCaption)
	}
}

func (p *Parser) fig0_21(b []byte) {
	pos := 0
	for pos+3 <= len(b) {
		idField := binary.BigEndian.Uint16(b[pos : pos+2])
		rAndM := b[pos+2] >> 4
		length := int(b[pos+2] & 0xF)
		pos += 3
		if pos+length > len(b) {
			return
		}
		body := b[pos : pos+length]
		pos += length

		switch rAndM {
		case 0x0: // other ensemble, same range/type
			freqs := make([]uint32, 0, len(body)/3)
			for i := 0; i+3 <= len(body); i += 3 {
				f := uint32(body[i])<<16 | uint32(body[i+1])<<8 | uint32(body[i+2])
				freqs = append(freqs, f*16) // 16 kHz units
			}
			p.handler.OnFrequencyInformationEnsemble(idField, freqs, true)
		case 0x8: // FM
			freqs := make([]uint32, 0, len(body))
			for _, f := range body {
				freqs = append(freqs, uint32(f)*100+87500)
			}
			p.handler.OnFrequencyInformationFM(uint32(idField), freqs)
		case 0x9: // DRM
			ids := make([]uint32, 0, len(body)/2)
			for i := 0; i+2 <= len(body); i += 2 {
				ids = append(ids, uint32(binary.BigEndian.Uint16(body[i:i+2])))
			}
			p.handler.OnFrequencyInformationDRM(uint32(idField), ids)
		case 0xA: // AMSS
			ids := make([]uint32, 0, len(body)/4)
			for i := 0; i+4 <= len(body); i += 4 {
				ids = append(ids, binary.BigEndian.Uint32(body[i:i+4]))
			}
			p.handler.OnFrequencyInformationAMSS(uint32(idField), ids)
		}
	}
}

func (p *Parser) fig0_24(b []byte) {
	pos := 0
	for pos+3 <= len(b) {
		serviceRef := uint32(binary.BigEndian.Uint16(b[pos : pos+2]))
		nbOther := b[pos+2] & 0x3F
		pos += 3
		for i := 0; i < int(nbOther) && pos+2 <= len(b); i++ {
			otherEID := binary.BigEndian.Uint16(b[pos : pos+2])
			p.handler.OnOtherEnsembleService(serviceRef, otherEID)
			pos += 2
		}
	}
}

func (p *Parser) parseFIG1(body []byte) {
	if len(body) < 1 {
		return
	}
	hdr := body[0]
	charset := Charset(hdr >> 4)
	ext := hdr & 0xF
	rest := body[1:]

	switch ext {
	case 0:
		p.fig1_0(rest, charset)
	case 1:
		p.fig1_1(rest, charset)
	case 4:
		p.fig1_4(rest, charset)
	case 5:
		p.fig1_5(rest, charset)
	case 6:
		p.fig1_6(rest, charset)
	}
}

// labelAndMask splits a FIG 1 body into its 16-byte label and trailing
// 2-byte short-label character mask.
func labelAndMask(b []byte) (string, uint16) {
	if len(b) < 18 {
		return "", 0
	}
	label := string(b[:16])
	mask := binary.BigEndian.Uint16(b[16:18])
	return label, mask
}

func (p *Parser) fig1_0(b []byte, cs Charset) {
	if len(b) < 2 {
		return
	}
	eid := binary.BigEndian.Uint16(b[0:2])
	label, mask := labelAndMask(b[2:])
	p.handler.OnEnsembleLabel(eid, label, mask, cs)
}

func (p *Parser) fig1_1(b []byte, cs Charset) {
	if len(b) < 2 {
		return
	}
	sref := uint32(binary.BigEndian.Uint16(b[0:2]))
	label, mask := labelAndMask(b[2:])
	p.handler.OnServiceLabel(sref, label, mask, cs)
}

func (p *Parser) fig1_4(b []byte, cs Charset) {
	if len(b) < 3 {
		return
	}
	sref := uint32(binary.BigEndian.Uint16(b[0:2]))
	componentID := b[2] & 0xF
	label, mask := labelAndMask(b[3:])
	p.handler.OnServiceComponentLabel(sref, componentID, label, mask, cs)
}

func (p *Parser) fig1_5(b []byte, cs Charset) {
	if len(b) < 2 {
		return
	}
	scID := binary.BigEndian.Uint16(b[0:2])
	label, mask := labelAndMask(b[2:])
	p.handler.OnDataServiceLabel(scID, label, mask, cs)
}

func (p *Parser) fig1_6(b []byte, cs Charset) {
	if len(b) < 3 {
		return
	}
	sref := uint32(binary.BigEndian.Uint16(b[0:2]))
	componentID := b[2] & 0xF
	label, mask := labelAndMask(b[3:])
	p.handler.OnXPADUserApplicationLabel(sref, componentID, label, mask, cs)
}
