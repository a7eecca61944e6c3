package dashboard

// SubscribeLatest subscribes to d and delivers snapshots on a channel that
// holds at most one value. A reader that falls behind sees only the most
// recent snapshot. Call the returned function to unsubscribe.
func SubscribeLatest(d Dashboard) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	// Subscriber callbacks never run concurrently, so this is the only sender.
	cancel := d.Subscribe(func(s Snapshot) {
		for {
			select {
			case ch <- s:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	})

	return ch, cancel
}
