package transcription

import (
	"testing"

	"audio-notebook-service/internal/models"
)

func TestUpdate_PublishesSnapshotsInOrder(t *testing.T) {
	s := NewState()
	id, ch := s.Subscribe()
	defer s.Unsubscribe(id)

	s.Update(func(v *View) { v.ProgressMessage = "uno" })
	s.Update(func(v *View) { v.ProgressMessage = "dos" })
	s.Update(func(v *View) { v.ProgressMessage = "tres" })

	want := []string{"uno", "dos", "tres"}
	for i, expected := range want {
		snap := <-ch
		if snap.ProgressMessage != expected {
			t.Errorf("snapshot %d: expected %q, got %q", i, expected, snap.ProgressMessage)
		}
	}
}

func TestNotification_OneShot(t *testing.T) {
	s := NewState()
	id, ch := s.Subscribe()
	defer s.Unsubscribe(id)

	s.Update(func(v *View) {
		v.Notification = &Notification{Level: NotifySuccess, Message: "hecho"}
	})
	s.Update(func(v *View) { v.ProgressMessage = "siguiente" })

	first := <-ch
	if first.Notification == nil || first.Notification.Message != "hecho" {
		t.Fatalf("expected notification on first snapshot, got %+v", first.Notification)
	}

	second := <-ch
	if second.Notification != nil {
		t.Errorf("notification leaked into later snapshot: %+v", second.Notification)
	}
	if s.Snapshot().Notification != nil {
		t.Error("notification should be cleared after delivery")
	}
}

func TestReset_Idempotent(t *testing.T) {
	s := NewState()
	s.setPending(pendingJob{audio: []byte("x"), filename: "a.mp3", workspaceID: "ws"})
	s.Update(func(v *View) {
		v.Transcribing = true
		v.ProgressMessage = "trabajando"
		v.ErrorMessage = "fallo"
		v.CurrentTranscription = SuccessSentinel
		v.UploadedFiles = []string{"a.mp3"}
	})

	s.Reset()
	first := s.Snapshot()
	s.Reset()
	second := s.Snapshot()

	for i, snap := range []View{first, second} {
		if snap.Transcribing {
			t.Errorf("reset %d: transcribing still true", i)
		}
		if snap.ProgressMessage != "" || snap.ErrorMessage != "" {
			t.Errorf("reset %d: messages not cleared: %+v", i, snap)
		}
		if snap.CurrentTranscription != "" {
			t.Errorf("reset %d: sentinel not cleared", i)
		}
		if len(snap.UploadedFiles) != 0 {
			t.Errorf("reset %d: uploaded files not cleared", i)
		}
	}

	if got := s.pendingSnapshot(); len(got.audio) != 0 || got.filename != "" {
		t.Errorf("pending buffer not cleared: %+v", got)
	}
}

func TestReset_KeepsTranscriptionList(t *testing.T) {
	s := NewState()
	s.Update(func(v *View) {
		v.Transcriptions = []models.TranscriptionSummary{{ID: 1, Filename: "a.mp3"}}
	})

	s.Reset()

	if got := s.Snapshot().Transcriptions; len(got) != 1 {
		t.Errorf("expected list preserved across reset, got %d entries", len(got))
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewState()
	s.Update(func(v *View) {
		v.Transcriptions = []models.TranscriptionSummary{{ID: 1, Filename: "a.mp3"}}
		v.UploadedFiles = []string{"a.mp3"}
	})

	snap := s.Snapshot()
	snap.Transcriptions[0].Filename = "mutated"
	snap.UploadedFiles[0] = "mutated"

	fresh := s.Snapshot()
	if fresh.Transcriptions[0].Filename != "a.mp3" {
		t.Error("snapshot shares transcription backing array with state")
	}
	if fresh.UploadedFiles[0] != "a.mp3" {
		t.Error("snapshot shares uploaded files backing array with state")
	}
}

func TestUnsubscribe_ClosesChannel(t *testing.T) {
	s := NewState()
	id, ch := s.Subscribe()
	s.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Error("expected channel closed after unsubscribe")
	}

	// Further updates must not panic with the subscriber gone.
	s.Update(func(v *View) { v.ProgressMessage = "x" })
}

func TestSlowSubscriber_DoesNotBlockUpdate(t *testing.T) {
	s := NewState()
	id, _ := s.Subscribe()
	defer s.Unsubscribe(id)

	// Overflow the subscriber buffer; Update must keep returning.
	for i := 0; i < subscriberBuffer*2; i++ {
		s.Update(func(v *View) { v.ProgressMessage = "overflow" })
	}
}
