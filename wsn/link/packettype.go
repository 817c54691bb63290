package link

// PacketType classifies a received frame by its destination.
type PacketType int

// The destination classes of a received frame.
const (
	PacketHost PacketType = iota
	PacketBroadcast
	PacketMulticast
	PacketOtherHost
)

func (t PacketType) String() string {
	switch t {
	case PacketHost:
		return "ToMe"
	case PacketBroadcast:
		return "Broadcast"
	case PacketMulticast:
		return "Multicast"
	case PacketOtherHost:
		return "OtherHost"
	default:
		return "Unknown"
	}
}

// Classify determines how a frame sent to the destination to is seen by the
// receiver with address self.
func Classify(to, self Address) PacketType {
	switch {
	case to == self:
		return PacketHost
	case to.IsBroadcast():
		return PacketBroadcast
	case to.IsGroup():
		return PacketMulticast
	default:
		return PacketOtherHost
	}
}
