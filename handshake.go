package binlog

// Client/server capability flags negotiated during the handshake.
//
// https://dev.mysql.com/doc/internals/en/capability-flags.html
const (
	CLIENT_LONG_PASSWORD     uint32 = 0x00000001
	CLIENT_FOUND_ROWS        uint32 = 0x00000002
	CLIENT_LONG_FLAG         uint32 = 0x00000004
	CLIENT_CONNECT_WITH_DB   uint32 = 0x00000008
	CLIENT_NO_SCHEMA         uint32 = 0x00000010
	CLIENT_COMPRESS          uint32 = 0x00000020
	CLIENT_ODBC              uint32 = 0x00000040
	CLIENT_LOCAL_FILES       uint32 = 0x00000080
	CLIENT_IGNORE_SPACE      uint32 = 0x00000100
	CLIENT_PROTOCOL_41       uint32 = 0x00000200
	CLIENT_INTERACTIVE       uint32 = 0x00000400
	CLIENT_SSL               uint32 = 0x00000800
	CLIENT_IGNORE_SIGPIPE    uint32 = 0x00001000
	CLIENT_TRANSACTIONS      uint32 = 0x00002000
	CLIENT_RESERVED          uint32 = 0x00004000
	CLIENT_SECURE_CONNECTION uint32 = 0x00008000
	CLIENT_MULTI_STATEMENTS  uint32 = 0x00010000
	CLIENT_MULTI_RESULTS     uint32 = 0x00020000
	CLIENT_PS_MULTI_RESULTS  uint32 = 0x00040000
	CLIENT_PLUGIN_AUTH       uint32 = 0x00080000
	CLIENT_CONNECT_ATTRS     uint32 = 0x00100000
	CLIENT_PLUGIN_AUTH_LENENC_CLIENT_DATA uint32 = 0x00200000
	CLIENT_SESSION_TRACK     uint32 = 0x00800000
	CLIENT_DEPRECATE_EOF     uint32 = 0x01000000

	// baseCapabilities are the flags this client always advertises; a
	// replication connection never needs COMPRESS/LOCAL_FILES/MULTI_RESULTS.
	baseCapabilities = CLIENT_LONG_PASSWORD | CLIENT_LONG_FLAG | CLIENT_PROTOCOL_41 |
		CLIENT_INTERACTIVE | CLIENT_TRANSACTIONS | CLIENT_SECURE_CONNECTION |
		CLIENT_MULTI_STATEMENTS | CLIENT_PLUGIN_AUTH
)

// COM_* command codes this client ever sends.
const (
	comQuit         = 0x01
	comQuery        = 0x03
	comRegisterSlave = 0x15
	comBinlogDump    = 0x12
	comBinlogDumpGTID = 0x1e
)

// handshakePacket is the server's HandshakeV10 greeting.
//
// https://dev.mysql.com/doc/internals/en/connection-phase-packets.html
type handshakePacket struct {
	ProtocolVersion byte
	ServerVersion   string
	ConnectionID    uint32
	AuthPluginData  []byte
	Capabilities    uint32
	Charset         byte
	StatusFlags     uint16
	AuthPluginName  string
}

func (p *handshakePacket) decode(r *logBuffer) error {
	p.ProtocolVersion = r.int1()
	p.ServerVersion = r.stringNull()
	p.ConnectionID = r.int4()
	seed1 := r.bytes(8)
	r.skip(1) // filler
	capLow := uint32(r.int2())
	p.Charset = r.int1()
	p.StatusFlags = r.int2()
	capHigh := uint32(r.int2())
	p.Capabilities = capLow | capHigh<<16
	authDataLen := r.int1()
	r.skip(10) // reserved

	if p.Capabilities&CLIENT_SECURE_CONNECTION != 0 {
		n := int(authDataLen) - 8
		if n < 13 {
			n = 13
		}
		seed2 := r.bytes(n)
		if len(seed2) > 0 && seed2[len(seed2)-1] == 0 {
			seed2 = seed2[:len(seed2)-1]
		}
		p.AuthPluginData = append(append([]byte{}, seed1...), seed2...)
	} else {
		p.AuthPluginData = seed1
	}
	if p.Capabilities&CLIENT_PLUGIN_AUTH != 0 {
		p.AuthPluginName = r.stringNull()
	}
	return r.err
}

// handshakeResponse41 is this client's ClientAuthenticationPacket reply,
// carrying the scrambled password produced by the negotiated auth
// plugin (see auth.go).
type handshakeResponse41 struct {
	Capabilities   uint32
	MaxPacketSize  uint32
	Charset        byte
	Username       string
	AuthResponse   []byte
	Database       string
	AuthPluginName string
}

func (p *handshakeResponse41) encode(w *writer) error {
	w.int4(p.Capabilities)
	w.int4(p.MaxPacketSize)
	w.int1(p.Charset)
	w.Write(make([]byte, 23)) // reserved
	w.stringNull(p.Username)
	if p.Capabilities&CLIENT_SECURE_CONNECTION != 0 {
		w.bytes1(p.AuthResponse)
	} else {
		w.bytesNull(p.AuthResponse)
	}
	if p.Capabilities&CLIENT_CONNECT_WITH_DB != 0 {
		w.stringNull(p.Database)
	}
	if p.Capabilities&CLIENT_PLUGIN_AUTH != 0 {
		w.stringNull(p.AuthPluginName)
	}
	return w.Close()
}
