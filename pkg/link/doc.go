// Package link publishes a host application's positional audio state to the Mumble
// voice client through the "Link" shared memory record.
//
// The record has a fixed, versioned layout (see RecordSize and Layout) and is written by a
// single Session without locks. The voice client polls it independently and treats a tick
// that stops advancing as the link going away.
//
// A typical host loop:
//
//	session, err := link.Open(ctx, link.DefaultConfig())
//	if err != nil {
//	  // positional audio unavailable, keep running
//	}
//	defer session.Close()
//	_ = session.SetIdentity("player-42")
//	_ = session.SetContext([]byte("zone-7"))
//	for range frames {
//	  _ = session.Update(avatar, camera)
//	}
//
// Hosts that do not want to deal with errors at all can use SharedLink, which retries the
// mapping in the background of Update calls.
package link
