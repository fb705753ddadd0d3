package catalog

// PC/SC result codes (pcsclite / WinSCard).
var pcscResults = map[uint32]string{
	0x80100001: "An internal consistency check failed",
	0x80100002: "The action was cancelled by an SCardCancel request",
	0x80100003: "The supplied handle was invalid",
	0x80100004: "One or more of the supplied parameters could not be properly interpreted",
	0x80100005: "Registry startup information is missing or invalid",
	0x80100006: "Not enough memory available to complete this command",
	0x80100007: "An internal consistency timer has expired",
	0x80100008: "The data buffer to receive returned data is too small for the returned data",
	0x80100009: "The specified reader name is not recognized",
	0x8010000A: "The user-specified timeout value has expired",
	0x8010000B: "The smart card cannot be accessed because of other connections outstanding",
	0x8010000C: "The operation requires a Smart Card, but no Smart Card is currently in the device",
	0x8010000D: "The specified smart card name is not recognized",
	0x8010000E: "The system could not dispose of the media in the requested manner",
	0x8010000F: "The requested protocols are incompatible with the protocol currently in use with the smart card",
	0x80100010: "The reader or smart card is not ready to accept commands",
	0x80100011: "One or more of the supplied parameters values could not be properly interpreted",
	0x80100012: "The action was cancelled by the system, presumably to log off or shut down",
	0x80100013: "An internal communications error has been detected",
	0x80100014: "An internal error has been detected, but the source is unknown",
	0x80100015: "An ATR obtained from the registry is not a valid ATR string",
	0x80100016: "An attempt was made to end a non-existent transaction",
	0x80100017: "The specified reader is not currently available for use",
	0x8010001D: "The Smart card resource manager is not running",
	0x8010001E: "The Smart card resource manager has shut down",
	0x8010001F: "This smart card does not support the requested feature",
	0x8010002E: "Cannot find a smart card reader",
	0x80100065: "The reader cannot communicate with the card, due to ATR string configuration conflicts",
	0x80100066: "The smart card is not responding to a reset",
	0x80100067: "Power has been removed from the smart card, so that further communication is not possible",
	0x80100068: "The smart card has been reset, so any shared state information is invalid",
	0x80100069: "The smart card has been removed, so further communication is not possible",
}

// Card status words (ISO/IEC 7816-4 interindustry codes plus common
// GlobalPlatform/issuer warnings in the 62xx range).
var cardStatusWords = map[uint16]string{
	0x9000: "No further qualification",

	0x6200: "No information given (NV-Ram not changed)",
	0x6201: "NV-Ram not changed 1",
	0x6281: "Part of returned data may be corrupted",
	0x6282: "End of file/record reached before reading Le bytes",
	0x6283: "Selected file invalidated",
	0x6284: "Selected file is not valid. FCI not formated according to ISO",
	0x6285: "No input data available from a sensor on the card. No Purse Engine enslaved for R3bc",
	0x6286: "No input data available from a sensor on the card",
	0x62A2: "Wrong R-MAC",
	0x62A4: "Card locked (during reset( ))",
	0x62F1: "Wrong C-MAC",
	0x62F3: "Internal reset",
	0x62F5: "Default agent locked",
	0x62F7: "Cardholder locked",
	0x62F8: "Basement is current agent",
	0x62F9: "CALC Key Set not unblocked",

	0x6300: "No information given (NV-Ram changed)",
	0x6381: "File filled up by the last write",

	0x6400: "Execution error: NV-Ram not changed",
	0x6401: "Immediate response required by the card",

	0x6500: "No information given (NV-Ram changed)",
	0x6581: "Memory failure",

	0x6600: "Security-related issue",

	0x6700: "Wrong length",

	0x6800: "Functions in CLA not supported",
	0x6881: "Logical channel not supported",
	0x6882: "Secure messaging not supported",
	0x6883: "Last command of the chain expected",
	0x6884: "Command chaining not supported",

	0x6900: "Command not allowed",
	0x6981: "Command incompatible with file structure",
	0x6982: "Security status not satisfied",
	0x6983: "Authentication method blocked",
	0x6984: "Reference data not usable",
	0x6985: "Conditions of use not satisfied",
	0x6986: "Command not allowed (no current EF)",
	0x6987: "Expected secure messaging data objects missing",
	0x6988: "Incorrect secure messaging data objects",

	0x6A00: "Wrong parameters P1-P2",
	0x6A80: "Incorrect parameters in the command data field",
	0x6A81: "Function not supported",
	0x6A82: "File or application not found",
	0x6A83: "Record not found",
	0x6A84: "Not enough memory space in the file",
	0x6A85: "Nc inconsistent with TLV structure",
	0x6A86: "Incorrect parameters P1-P2",
	0x6A87: "Nc inconsistent with parameters P1-P2",
	0x6A88: "Referenced data or reference data not found",
	0x6A89: "File already exists",
	0x6A8A: "DF name already exists",

	0x6B00: "Wrong parameters P1-P2",
	0x6D00: "Instruction code not supported or invalid",
	0x6E00: "Class not supported",
	0x6F00: "No precise diagnosis",
}
