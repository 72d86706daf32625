package domain

// ChannelProfile is a channel view enriched with graph-derived fields.
// IsSubscribed is relative to the requesting viewer and false for
// anonymous viewers.
type ChannelProfile struct {
	User
	SubscribersCount          int  `json:"subscribersCount"`
	ChannelsSubscribedToCount int  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool `json:"isSubscribed"`
}
