// Package chat decodes chat history exports and aggregates them into labelled counts
// (messages per sender, weekday and month, and the most frequent words).
package chat
