package protocol

// PacketType identifies the purpose of a packet. Values are stable on the
// wire; new opcodes are appended, never renumbered. A value not present in
// this enumeration decodes to Unknown so that newer peers can introduce
// opcodes an older universe service has not learned yet.
type PacketType int16

const (
	PublicKeyResponse PacketType = 1
	StreamKeyResponse PacketType = 2

	Address          PacketType = 5
	Attributes       PacketType = 6
	AttributeChange  PacketType = 7
	AttributesReset  PacketType = 8
	AvatarAdd        PacketType = 9
	AvatarChange     PacketType = 10
	AvatarClick      PacketType = 11
	AvatarDelete     PacketType = 12

	Invite          PacketType = 14
	BotgramResponse PacketType = 15

	Capabilities PacketType = 16
	CellBegin    PacketType = 17
	CellEnd      PacketType = 18
	CellNext     PacketType = 19
	CellUpdate   PacketType = 20

	CitizenAdd            PacketType = 21
	CitizenInfo           PacketType = 22
	CitizenLookupByName   PacketType = 23
	CitizenLookupByNumber PacketType = 24
	CitizenChange         PacketType = 25
	CitizenDelete         PacketType = 26
	CitizenNext           PacketType = 27
	CitizenPrev           PacketType = 28
	CitizenChangeResult   PacketType = 29

	ConsoleMessage PacketType = 30
	ContactAdd     PacketType = 31
	ContactChange  PacketType = 32
	ContactDelete  PacketType = 33
	ContactList    PacketType = 34
	Enter          PacketType = 35

	PublicKeyRequest PacketType = 36
	Heartbeat        PacketType = 37
	Identify         PacketType = 38
	LicenseAdd       PacketType = 39
	LicenseResult    PacketType = 40
	LicenseByName    PacketType = 41
	LicenseChange    PacketType = 42
	LicenseDelete    PacketType = 43
	LicenseNext      PacketType = 44
	LicensePrev      PacketType = 45

	LicenseChangeResult PacketType = 46
	Login               PacketType = 47
	Message             PacketType = 48
	ObjectAdd           PacketType = 49

	ObjectClick     PacketType = 51
	ObjectDelete    PacketType = 52
	ObjectDeleteAll PacketType = 53

	ObjectResult PacketType = 55
	ObjectSelect PacketType = 56

	QueryNeedMore     PacketType = 59
	QueryUpToDate     PacketType = 60
	RegistryReload    PacketType = 61
	ServerLogin       PacketType = 62
	WorldServerStart  PacketType = 63

	ServerWorldDelete     PacketType = 67
	ServerWorldList       PacketType = 68
	ServerWorldListResult PacketType = 69
	ServerWorldResult     PacketType = 70

	TelegramDeliver PacketType = 75
	TelegramGet     PacketType = 76
	TelegramNotify  PacketType = 77
	TelegramSend    PacketType = 78
	Teleport        PacketType = 79
	TerrainBegin    PacketType = 80
	TerrainChanged  PacketType = 81
	TerrainData     PacketType = 82
	TerrainDelete   PacketType = 83
	TerrainEnd      PacketType = 84
	TerrainLoad     PacketType = 85
	TerrainNext     PacketType = 86

	TerrainSet   PacketType = 88
	ToolbarClick PacketType = 89
	URL          PacketType = 90
	URLClick     PacketType = 91
	UserList     PacketType = 92
	UserListResult PacketType = 93
	LoginApplication PacketType = 94

	WorldList          PacketType = 96
	WorldListResult    PacketType = 97
	WorldLookup        PacketType = 98
	WorldStart         PacketType = 99
	WorldStop          PacketType = 100
	Tunnel             PacketType = 101
	WorldStatsUpdate   PacketType = 102
	Join               PacketType = 103
	JoinReply          PacketType = 104
	Xfer               PacketType = 105
	XferReply          PacketType = 106
	Noise              PacketType = 107

	Camera                   PacketType = 109
	Botmenu                  PacketType = 110
	BotmenuResult            PacketType = 111
	WorldEject               PacketType = 112
	EjectAdd                 PacketType = 113
	EjectDelete              PacketType = 114
	EjectLookup              PacketType = 115
	EjectNext                PacketType = 116
	EjectPrev                PacketType = 117
	WorldEjectResult         PacketType = 118
	WorldConnectionResult    PacketType = 119
	ObjectBump               PacketType = 120
	PasswordSend             PacketType = 121

	CavTemplateByNumber       PacketType = 123
	CavTemplateNext           PacketType = 124
	CavTemplateChange         PacketType = 125
	CavTemplateDelete         PacketType = 126
	WorldCAVDefinitionChange  PacketType = 127
	WorldCAV                  PacketType = 128

	CavDelete       PacketType = 130
	WorldCAVResult  PacketType = 131
	MoverAdd        PacketType = 144
	MoverDelete     PacketType = 145
	MoverChange     PacketType = 146

	MoverRiderAdd    PacketType = 148
	MoverRiderDelete PacketType = 149
	MoverRiderChange PacketType = 150
	MoverLinks       PacketType = 151

	SetAFK PacketType = 152

	Immigrate PacketType = 155

	Register PacketType = 157

	AvatarReload       PacketType = 159
	WorldInstanceSet   PacketType = 160
	WorldInstanceGet   PacketType = 161

	ContactConfirm PacketType = 163

	HudCreate      PacketType = 164
	HudClick       PacketType = 165
	HudDestroy     PacketType = 166
	HudClear       PacketType = 167
	HudResult      PacketType = 168
	AvatarLocation PacketType = 169
	ObjectQuery    PacketType = 170
	LaserBeam      PacketType = 183

	// Unknown is the sentinel opcode an otherwise-unrecognized wire value
	// decodes to. It preserves forward compatibility: a newer peer can
	// introduce opcodes this build has never heard of without breaking the
	// framing of the rest of the stream.
	Unknown PacketType = 0x7FFF
)

var packetTypeNames = map[PacketType]string{
	PublicKeyResponse: "PublicKeyResponse", StreamKeyResponse: "StreamKeyResponse",
	Address: "Address", Attributes: "Attributes", AttributeChange: "AttributeChange",
	AttributesReset: "AttributesReset", AvatarAdd: "AvatarAdd", AvatarChange: "AvatarChange",
	AvatarClick: "AvatarClick", AvatarDelete: "AvatarDelete", Invite: "Invite",
	BotgramResponse: "BotgramResponse", Capabilities: "Capabilities", CellBegin: "CellBegin",
	CellEnd: "CellEnd", CellNext: "CellNext", CellUpdate: "CellUpdate",
	CitizenAdd: "CitizenAdd", CitizenInfo: "CitizenInfo", CitizenLookupByName: "CitizenLookupByName",
	CitizenLookupByNumber: "CitizenLookupByNumber", CitizenChange: "CitizenChange",
	CitizenDelete: "CitizenDelete", CitizenNext: "CitizenNext", CitizenPrev: "CitizenPrev",
	CitizenChangeResult: "CitizenChangeResult", ConsoleMessage: "ConsoleMessage",
	ContactAdd: "ContactAdd", ContactChange: "ContactChange", ContactDelete: "ContactDelete",
	ContactList: "ContactList", Enter: "Enter", PublicKeyRequest: "PublicKeyRequest",
	Heartbeat: "Heartbeat", Identify: "Identify", LicenseAdd: "LicenseAdd",
	LicenseResult: "LicenseResult", LicenseByName: "LicenseByName", LicenseChange: "LicenseChange",
	LicenseDelete: "LicenseDelete", LicenseNext: "LicenseNext", LicensePrev: "LicensePrev",
	LicenseChangeResult: "LicenseChangeResult", Login: "Login", Message: "Message",
	ObjectAdd: "ObjectAdd", ObjectClick: "ObjectClick", ObjectDelete: "ObjectDelete",
	ObjectDeleteAll: "ObjectDeleteAll", ObjectResult: "ObjectResult", ObjectSelect: "ObjectSelect",
	QueryNeedMore: "QueryNeedMore", QueryUpToDate: "QueryUpToDate", RegistryReload: "RegistryReload",
	ServerLogin: "ServerLogin", WorldServerStart: "WorldServerStart",
	ServerWorldDelete: "ServerWorldDelete", ServerWorldList: "ServerWorldList",
	ServerWorldListResult: "ServerWorldListResult", ServerWorldResult: "ServerWorldResult",
	TelegramDeliver: "TelegramDeliver", TelegramGet: "TelegramGet", TelegramNotify: "TelegramNotify",
	TelegramSend: "TelegramSend", Teleport: "Teleport", TerrainBegin: "TerrainBegin",
	TerrainChanged: "TerrainChanged", TerrainData: "TerrainData", TerrainDelete: "TerrainDelete",
	TerrainEnd: "TerrainEnd", TerrainLoad: "TerrainLoad", TerrainNext: "TerrainNext",
	TerrainSet: "TerrainSet", ToolbarClick: "ToolbarClick", URL: "URL", URLClick: "URLClick",
	UserList: "UserList", UserListResult: "UserListResult", LoginApplication: "LoginApplication",
	WorldList: "WorldList", WorldListResult: "WorldListResult", WorldLookup: "WorldLookup",
	WorldStart: "WorldStart", WorldStop: "WorldStop", Tunnel: "Tunnel",
	WorldStatsUpdate: "WorldStatsUpdate", Join: "Join", JoinReply: "JoinReply",
	Xfer: "Xfer", XferReply: "XferReply", Noise: "Noise", Camera: "Camera",
	Botmenu: "Botmenu", BotmenuResult: "BotmenuResult", WorldEject: "WorldEject",
	EjectAdd: "EjectAdd", EjectDelete: "EjectDelete", EjectLookup: "EjectLookup",
	EjectNext: "EjectNext", EjectPrev: "EjectPrev", WorldEjectResult: "WorldEjectResult",
	WorldConnectionResult: "WorldConnectionResult", ObjectBump: "ObjectBump",
	PasswordSend: "PasswordSend", CavTemplateByNumber: "CavTemplateByNumber",
	CavTemplateNext: "CavTemplateNext", CavTemplateChange: "CavTemplateChange",
	CavTemplateDelete: "CavTemplateDelete", WorldCAVDefinitionChange: "WorldCAVDefinitionChange",
	WorldCAV: "WorldCAV", CavDelete: "CavDelete", WorldCAVResult: "WorldCAVResult",
	MoverAdd: "MoverAdd", MoverDelete: "MoverDelete", MoverChange: "MoverChange",
	MoverRiderAdd: "MoverRiderAdd", MoverRiderDelete: "MoverRiderDelete",
	MoverRiderChange: "MoverRiderChange", MoverLinks: "MoverLinks", SetAFK: "SetAFK",
	Immigrate: "Immigrate", Register: "Register", AvatarReload: "AvatarReload",
	WorldInstanceSet: "WorldInstanceSet", WorldInstanceGet: "WorldInstanceGet",
	ContactConfirm: "ContactConfirm", HudCreate: "HudCreate", HudClick: "HudClick",
	HudDestroy: "HudDestroy", HudClear: "HudClear", HudResult: "HudResult",
	AvatarLocation: "AvatarLocation", ObjectQuery: "ObjectQuery", LaserBeam: "LaserBeam",
	Unknown: "Unknown",
}

// String implements fmt.Stringer for logging.
func (p PacketType) String() string {
	if name, ok := packetTypeNames[p]; ok {
		return name
	}
	return "Unregistered"
}

// packetTypeFromWire maps a raw wire value to a known PacketType,
// falling back to Unknown for forward compatibility.
func packetTypeFromWire(v int16) PacketType {
	pt := PacketType(v)
	if _, ok := packetTypeNames[pt]; ok {
		return pt
	}
	return Unknown
}
