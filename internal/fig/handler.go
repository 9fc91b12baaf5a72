package fig

// Handler receives decoded FIG content, one callback per FIG 0/x or FIG 1/x
// case. It is the Go translation of the reference decoder's
// fig_handler_interface.h; internal/radio.FIGHandler is the concrete
// implementation that forwards these into the ensemble database updater.
type Handler interface {
	// FIG 0/0: ensemble identity and local-frequency re-tuning hint.
	OnEnsembleID(countryID byte, ensembleRef uint16, changeFlags byte, alarmFlag bool)

	// FIG 0/1: subchannel organisation (basic/short-form and EEP long-form).
	OnSubchannelShortForm(subChID byte, startAddr uint16, tableSwitch bool, tableIndex byte)
	OnSubchannelLongFormEEP(subChID byte, startAddr uint16, option byte, eepType EEPType, subChSize uint16)
	OnSubchannelLongFormUEP(subChID byte, startAddr uint16, tableIndex byte)

	// FIG 0/2: service organisation (audio and data service components).
	OnServiceComponentStreamAudio(serviceRef uint32, countryID byte, extendedCountryCode byte, componentID byte, subChID byte, audioType AudioServiceType, isPrimary bool)
	OnServiceComponentStreamDataRaw(serviceRef uint32, countryID byte, extendedCountryCode byte, componentID byte, subChID byte, isPrimary bool)
	OnServiceComponentPacketData(serviceRef uint32, countryID byte, extendedCountryCode byte, componentID byte, serviceComponentGlobalID uint16, isPrimary bool)
	OnServiceComponentFIDC(serviceRef uint32, countryID byte, extendedCountryCode byte, componentID byte, fidcID byte, isPrimary bool)

	// FIG 0/3: service component global ID for data services (packet/FIDC).
	OnDataServiceComponentGlobalID(serviceComponentGlobalID uint16, dataServiceType DataServiceType, dgFlag bool)

	// FIG 0/4: conditional access — present but not decoded further
	// (descrambling is explicitly out of scope).
	OnConditionalAccess(subChID byte, caOrganisation uint16)

	// FIG 0/5: service component language.
	OnServiceComponentLanguage(serviceRef uint32, componentID byte, language byte)

	// FIG 0/6: service linking information.
	OnServiceLinking(linkageSetNumber uint16, isActiveLink bool, isHardLink bool, isInternational bool, serviceRef uint32)

	// FIG 0/7: ensemble configuration (number of services, reconfiguration count).
	OnEnsembleConfiguration(nbServices byte, reconfigurationCount uint16)

	// FIG 0/8: service component extended information (SCIdS mapping).
	OnServiceComponentExtended(serviceRef uint32, serviceComponentID byte, subChID byte, isPacketMode bool, serviceComponentGlobalID uint16)

	// FIG 0/9: ensemble country, LTO and international table.
	OnEnsembleCountry(ensembleLTO int8, ensembleInternationalTable byte, extendedCountryCode byte)

	// FIG 0/10: date and time.
	OnDateTime(dt DateTime)

	// FIG 0/13: user application information (MOT/slideshow/EPG application
	// type carried by a service component).
	OnUserApplication(serviceRef uint32, componentID byte, userApplicationType uint16, userApplicationData []byte)

	// FIG 0/14: MSC FEC scheme indication for a subchannel.
	OnSubchannelFEC(subChID byte, fecScheme byte)

	// FIG 0/17: programme type and language for a service.
	OnProgrammeType(serviceRef uint32, language byte, programmeType ProgrammeType, hasLanguage bool, hasClosedCaption bool)

	// FIG 0/21: frequency information — other ensembles, FM and DRM/AMSS
	// alternate frequencies for the current ensemble.
	OnFrequencyInformationEnsemble(ensembleID uint16, frequenciesKHz []uint32, isContinuousOutput bool)
	OnFrequencyInformationFM(serviceRef uint32, frequenciesKHz []uint32)
	OnFrequencyInformationDRM(serviceRef uint32, serviceIDs []uint32)
	OnFrequencyInformationAMSS(serviceRef uint32, serviceIDs []uint32)

	// FIG 0/24: other-ensemble service membership.
	OnOtherEnsembleService(serviceRef uint32, otherEnsembleID uint16)

	// FIG 1/0: ensemble label.
	OnEnsembleLabel(ensembleID uint16, label string, shortLabelMask uint16, charset Charset)

	// FIG 1/1: service label.
	OnServiceLabel(serviceRef uint32, label string, shortLabelMask uint16, charset Charset)

	// FIG 1/4: service component label.
	OnServiceComponentLabel(serviceRef uint32, componentID byte, label string, shortLabelMask uint16, charset Charset)

	// FIG 1/5: data service label (by service component global ID).
	OnDataServiceLabel(serviceComponentGlobalID uint16, label string, shortLabelMask uint16, charset Charset)

	// FIG 1/6: X-PAD user application label.
	OnXPADUserApplicationLabel(serviceRef uint32, componentID byte, label string, shortLabelMask uint16, charset Charset)
}
