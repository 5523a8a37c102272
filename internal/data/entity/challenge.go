package entity

import "time"

type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelMobile Channel = "mobile"
)

// IdentityPair is the (email, mobile) tuple a registrant verifies together.
type IdentityPair struct {
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// Identifier returns the raw contact string for a channel.
func (p IdentityPair) Identifier(ch Channel) string {
	if ch == ChannelEmail {
		return p.Email
	}
	return p.Mobile
}

// Challenge is the in-flight verification state for one IdentityPair.
// A code hash is set iff its Sent flag is true.
type Challenge struct {
	BaseNoDelete
	IdentityPair
	EmailCodeHash  *string   `db:"email_code_hash"`
	MobileCodeHash *string   `db:"mobile_code_hash"`
	EmailSent      bool      `db:"email_sent"`
	MobileSent     bool      `db:"mobile_sent"`
	ExpiresAt      time.Time `db:"expires_at"`
}

// Ready reports whether both codes have been issued.
func (c *Challenge) Ready() bool {
	return c.EmailSent && c.MobileSent
}

// ChallengeUpdate carries one channel's freshly issued code hash.
type ChallengeUpdate struct {
	Pair      IdentityPair
	Channel   Channel
	CodeHash  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
