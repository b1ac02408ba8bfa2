package protocol

// VarID identifies one field inside a packet. The numbering here is a
// closed, append-only enumeration: existing values are never renumbered,
// new ones are only ever added at the end of a group. A var whose id is
// not in this list still round-trips correctly through Encode/Decode -- it
// is simply opaque to the typed accessors.
type VarID uint16

const (
	// Key exchange / session bootstrap.
	VarPublicKeyResponse VarID = 1
	VarStreamKeyResponse VarID = 2

	// World/avatar presence.
	VarAddress         VarID = 5
	VarAttributes      VarID = 6
	VarAttributeChange VarID = 7
	VarAttributesReset VarID = 8
	VarAvatarAdd       VarID = 9
	VarAvatarChange    VarID = 10
	VarAvatarClick     VarID = 11
	VarAvatarDelete    VarID = 12

	VarInvite          VarID = 14
	VarBotgramResponse VarID = 15
	VarCapabilities    VarID = 16

	// Citizen directory. CitizenNumber and CitizenName double as request
	// parameters for the lookup/pagination opcodes and as response fields.
	VarCitizenAdd                VarID = 21
	VarCitizenNumber             VarID = 22
	VarCitizenName               VarID = 23
	VarCitizenChange             VarID = 25
	VarCitizenDelete             VarID = 26
	VarCitizenNext               VarID = 27
	VarCitizenPrev               VarID = 28
	VarCitizenChangeResult       VarID = 29
	VarCitizenPassword           VarID = 30
	VarCitizenEmail              VarID = 31
	VarCitizenPrivilegePassword  VarID = 32
	VarCitizenComment            VarID = 33
	VarCitizenURL                VarID = 34
	VarCitizenImmigration        VarID = 40
	VarCitizenExpiration         VarID = 41
	VarCitizenLastLogin          VarID = 42
	VarCitizenTotalTime          VarID = 43
	VarCitizenBotLimit           VarID = 44
	VarCitizenEnabled            VarID = 45
	VarCitizenPrivacy            VarID = 46
	VarIdentifyUserIP            VarID = 47
	VarBetaUser                  VarID = 48
	VarTrialUser                 VarID = 49
	VarCAVEnabled                VarID = 50
	VarCAVTemplate               VarID = 51

	// Contacts.
	VarContactAdd    VarID = 55
	VarContactChange VarID = 56
	VarContactDelete VarID = 57
	VarContactList   VarID = 58

	// Login.
	VarUserType            VarID = 60
	VarLoginUsername       VarID = 61
	VarPassword            VarID = 62
	VarEmail               VarID = 63
	VarPrivilegeUserID     VarID = 64
	VarPrivilegePassword   VarID = 65
	VarBrowserBuild        VarID = 66
	VarBrowserVersion      VarID = 67
	VarSessionID           VarID = 68
	VarUniverseLicense     VarID = 69
	VarReasonCode          VarID = 70

	// Contact / telegram.
	VarMessage          VarID = 75
	VarTelegramDeliver  VarID = 76
	VarTelegramGet      VarID = 77
	VarTelegramNotify   VarID = 78
	VarTelegramSend     VarID = 79
	VarAFKStatus        VarID = 80

	// Licensing / world registration.
	VarLicenseName     VarID = 85
	VarLicensePassword VarID = 86
	VarLicenseEmail    VarID = 87
	VarLicenseComment  VarID = 88
	VarLicenseCreation VarID = 89
	VarLicenseExpiration VarID = 90
	VarLicenseLastAddress VarID = 91
	VarLicenseLastStart VarID = 92
	VarLicenseTimesStarted VarID = 93
	VarLicenseUsers        VarID = 94
	VarLicenseRange        VarID = 95
	VarLicenseLocalRange   VarID = 96
	VarLicenseHidden       VarID = 97
	VarLicenseChangeData   VarID = 98
	VarLicenseVoip         VarID = 99
	VarLicensePlugin       VarID = 100
	VarLicenseBytes        VarID = 101
	VarLicenseTourists     VarID = 102

	// World directory.
	VarWorldName       VarID = 110
	VarWorldRating     VarID = 111
	VarWorldUsers      VarID = 112
	VarWorldMaxUsers   VarID = 113
	VarWorldStatus     VarID = 114
	VarWorldInstanceSize VarID = 115

	// User list (§4.7).
	VarUserListName        VarID = 120
	VarUserListID          VarID = 121
	VarUserListCitizenID   VarID = 122
	VarUserListPrivilegeID VarID = 123
	VarUserListAddress     VarID = 124
	VarUserListState       VarID = 125
	VarUserListWorldName   VarID = 126
	VarUserListMore        VarID = 127
	VarUserList3DayUnknown VarID = 128

	// Attribute broadcast (named after the universe attribute they carry).
	VarAttribAllowTourists VarID = 135
)
