package kg

// envelope is the common shape of every Kugou JSON response this client
// touches: a status/error pair wrapping a payload-specific body.
type envelope struct {
	ErrorCode int    `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

func (e envelope) ok() bool {
	return e.ErrorCode == 0 || e.ErrorCode == 200
}

// dfidResponse is userservice.kugou.com/risk/v1/r_register_dev's body.
type dfidResponse struct {
	Data struct {
		Dfid string `json:"dfid"`
	} `json:"data"`
}

// complexSearchResponse is complexsearch.kugou.com/v2/search/song's body.
type complexSearchResponse struct {
	envelope
	Data struct {
		Lists []complexSongInfo `json:"lists"`
	} `json:"data"`
}

type complexSinger struct {
	Name string `json:"name"`
}

type complexSongInfo struct {
	ID        any             `json:"ID"`
	SongName  string          `json:"SongName"`
	Singers   []complexSinger `json:"Singers"`
	AlbumName string          `json:"AlbumName"`
	Duration  int             `json:"Duration"`
	FileHash  string          `json:"FileHash"`
}

// legacySearchResponse is the *.kugou.com/api/v3/search/song fallback's body.
type legacySearchResponse struct {
	Data struct {
		Info []legacySongInfo `json:"info"`
	} `json:"data"`
}

type legacySongInfo struct {
	AlbumAudioID any    `json:"album_audio_id"`
	SongName     string `json:"songname"`
	SingerName   string `json:"singername"`
	AlbumName    string `json:"album_name"`
	Duration     int    `json:"duration"`
	Hash         string `json:"hash"`
}

// lyricsSearchResponse is lyrics.kugou.com/v1/search's body.
type lyricsSearchResponse struct {
	envelope
	Candidates []lyricsCandidate `json:"candidates"`
}

type lyricsCandidate struct {
	ID        any    `json:"id"`
	AccessKey string `json:"accesskey"`
}

// lyricsDownloadResponse is lyrics.kugou.com/download's body.
type lyricsDownloadResponse struct {
	envelope
	ContentType int    `json:"contenttype"`
	Content     string `json:"content"`
}
