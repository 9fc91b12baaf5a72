package fig

// NoopHandler implements Handler with no-op methods; embedding it lets
// callers (tests, partial adapters) override only the callbacks they care
// about.
type NoopHandler struct{}

func (NoopHandler) OnEnsembleID(byte, uint16, byte, bool)                                      {}
func (NoopHandler) OnSubchannelShortForm(byte, uint16, bool, byte)                              {}
func (NoopHandler) OnSubchannelLongFormEEP(byte, uint16, byte, EEPType, uint16)                 {}
func (NoopHandler) OnSubchannelLongFormUEP(byte, uint16, byte)                                  {}
func (NoopHandler) OnServiceComponentStreamAudio(uint32, byte, byte, byte, byte, AudioServiceType, bool) {}
func (NoopHandler) OnServiceComponentStreamDataRaw(uint32, byte, byte, byte, byte, bool)        {}
func (NoopHandler) OnServiceComponentPacketData(uint32, byte, byte, byte, uint16, bool)         {}
func (NoopHandler) OnServiceComponentFIDC(uint32, byte, byte, byte, byte, bool)                 {}
func (NoopHandler) OnDataServiceComponentGlobalID(uint16, DataServiceType, bool)                {}
func (NoopHandler) OnConditionalAccess(byte, uint16)                                            {}
func (NoopHandler) OnServiceComponentLanguage(uint32, byte, byte)                               {}
func (NoopHandler) OnServiceLinking(uint16, bool, bool, bool, uint32)                            {}
func (NoopHandler) OnEnsembleConfiguration(byte, uint16)                                        {}
func (NoopHandler) OnServiceComponentExtended(uint32, byte, byte, bool, uint16)                 {}
func (NoopHandler) OnEnsembleCountry(int8, byte, byte)                                          {}
func (NoopHandler) OnDateTime(DateTime)                                                         {}
func (NoopHandler) OnUserApplication(uint32, byte, uint16, []byte)                               {}
func (NoopHandler) OnSubchannelFEC(byte, byte)                                                  {}
func (NoopHandler) OnProgrammeType(uint32, byte, ProgrammeType, bool, bool)                      {}
func (NoopHandler) OnFrequencyInformationEnsemble(uint16, []uint32, bool)                        {}
func (NoopHandler) OnFrequencyInformationFM(uint32, []uint32)                                   {}
func (NoopHandler) OnFrequencyInformationDRM(uint32, []uint32)                                  {}
func (NoopHandler) OnFrequencyInformationAMSS(uint32, []uint32)                                 {}
func (NoopHandler) OnOtherEnsembleService(uint32, uint16)                                       {}
func (NoopHandler) OnEnsembleLabel(uint16, string, uint16, Charset)                             {}
func (NoopHandler) OnServiceLabel(uint32, string, uint16, Charset)                              {}
func (NoopHandler) OnServiceComponentLabel(uint32, byte, string, uint16, Charset)                {}
func (NoopHandler) OnDataServiceLabel(uint16, string, uint16, Charset)                          {}
func (NoopHandler) OnXPADUserApplicationLabel(uint32, byte, string, uint16, Charset)             {}
