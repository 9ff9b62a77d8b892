package catalog

// MultiSink fans events out to several sinks: typically the MQTT
// publisher and the audit recorder.
type MultiSink []EventSink

// Publish implements EventSink.
func (m MultiSink) Publish(e Event) {
	for _, sink := range m {
		if sink != nil {
			sink.Publish(e)
		}
	}
}
