package domain

// MediaState is the shared playback position of a guild.
// QueueIndex is -1 until something has been played.
type MediaState struct {
	CurrentTime int  `json:"current_time"`
	Length      int  `json:"length"`
	Playing     bool `json:"playing"`
	QueueIndex  int  `json:"queue_index"`
}

func NewMediaState() MediaState {
	return MediaState{QueueIndex: -1}
}
