package chat

import "sort"

func sortThreadsNewestFirst(list []Thread) {
	sort.Slice(list, func(i, j int) bool { return list[i].LastAt.After(list[j].LastAt) })
}

// SummarizeThreads merangkum daftar pesan jadi thread per chatId; dipakai
// saat daftar pesan sudah ada di memori (dan oleh tests).
func SummarizeThreads(msgs []Message) []Thread {
	byChat := make(map[string]*Thread)
	for _, m := range msgs {
		t, ok := byChat[m.ChatID]
		if !ok {
			t = &Thread{ChatID: m.ChatID}
			byChat[m.ChatID] = t
		}
		if m.CustomerEmail != "" {
			t.CustomerEmail = m.CustomerEmail
		}
		if m.CustomerName != "" {
			t.CustomerName = m.CustomerName
		}
		if !m.Timestamp.Before(t.LastAt) {
			t.LastAt = m.Timestamp
			t.LastText = m.Text
		}
		if m.Type == TypeCustomerMessage && !m.Read {
			t.Unread++
		}
	}
	out := make([]Thread, 0, len(byChat))
	for _, t := range byChat {
		out = append(out, *t)
	}
	sortThreadsNewestFirst(out)
	return out
}
