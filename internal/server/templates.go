package server

import "html/template"

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<title>Music Link Converter (Legal)</title>
<h1>Music Link Converter (Legal)</h1>
<p><strong>Heads up:</strong> This app will not download from Spotify, Apple Music, YouTube, or SoundCloud. Use uploads or direct audio file URLs you have rights to.</p>

<form method="post" action="/convert" enctype="multipart/form-data" style="margin-bottom:2rem;">
  <fieldset>
    <legend>1) Provide source</legend>
    <label>Upload audio file:
      <input type="file" name="file">
    </label>
    <br><br>
    <label>OR direct audio file URL:
      <input type="url" name="file_url" placeholder="https://example.com/song.flac" style="width:32rem;">
    </label>
  </fieldset>
  <br>
  <fieldset>
    <legend>2) Choose output</legend>
    <label><input type="radio" name="format" value="wav" checked> WAV</label>
    <label><input type="radio" name="format" value="aiff"> AIFF</label>
  </fieldset>
  <br>
  <label>
    <input type="checkbox" name="rights" required>
    I confirm I own the content or have permission to convert and download it.
  </label>
  <br><br>
  <button type="submit">Convert</button>
</form>

<hr>

<h2>Metadata (display only)</h2>
<form method="get" action="/meta">
  <input type="url" name="link" placeholder="Spotify/Apple/YouTube/SoundCloud link" style="width:32rem;" required>
  <button type="submit">Fetch</button>
</form>
`))

var metaTemplate = template.Must(template.New("meta").Parse(`<h3>Metadata</h3>
<p><strong>Source:</strong> {{.Source}}</p>
<p><strong>URL:</strong> <a href="{{.URL}}" target="_blank" rel="noopener">{{.URL}}</a></p>
<p><strong>Title:</strong> {{if .Title}}{{.Title}}{{else}}&mdash;{{end}}</p>
<p><strong>Author:</strong> {{if .Author}}{{.Author}}{{else}}&mdash;{{end}}</p>
<p><strong>Thumbnail:</strong> {{if .Thumbnail}}<img src="{{.Thumbnail}}" alt="thumbnail">{{else}}&mdash;{{end}}</p>
<p>Reminder: audio ripping from these services is blocked by design.</p>
<p><a href="/">Back</a></p>
`))
