package domain

import (
	"sort"
	"strings"
)

// Channel identifica um destino externo de publicação (linkedin, twitter, slack...)
type Channel string

const (
	ChannelLinkedIn Channel = "linkedin"
	ChannelTwitter  Channel = "twitter"
	ChannelSlack    Channel = "slack"
)

// NormalizeChannels trims, lowercases and deduplicates a channel list, keeping
// the result sorted so that every split and comparison is deterministic.
func NormalizeChannels(channels []Channel) []Channel {
	seen := make(map[Channel]struct{}, len(channels))
	result := make([]Channel, 0, len(channels))

	for _, ch := range channels {
		normalized := Channel(strings.ToLower(strings.TrimSpace(string(ch))))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// ContainsChannel reports whether channel is part of channels.
func ContainsChannel(channels []Channel, channel Channel) bool {
	for _, ch := range channels {
		if ch == channel {
			return true
		}
	}
	return false
}

// MissingChannels returns the members of subset that are not present in set.
func MissingChannels(subset, set []Channel) []Channel {
	var missing []Channel
	for _, ch := range subset {
		if !ContainsChannel(set, ch) {
			missing = append(missing, ch)
		}
	}
	return missing
}

// ChannelNames joins channels with commas, for messages and logs.
func ChannelNames(channels []Channel) string {
	names := make([]string, len(channels))
	for i, ch := range channels {
		names[i] = string(ch)
	}
	return strings.Join(names, ",")
}
