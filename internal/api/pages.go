package api

import "html/template"

// uploadPage is the landing form served at GET /.
var uploadPage = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Nesshub</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; background: #efefef; color: #263746; }
  .box { max-width: 520px; margin: 80px auto; background: #fff; border-radius: 8px; padding: 32px; box-shadow: 0 1px 4px rgba(38,55,70,.2); }
  h1 { margin-top: 0; }
  label { display: block; margin: 14px 0 4px; font-size: 14px; font-weight: 600; }
  input { width: 100%; padding: 8px; border: 1px solid #c6cfd5; border-radius: 4px; box-sizing: border-box; }
  button { margin-top: 20px; background: #263746; color: #fff; border: 0; padding: 10px 22px; border-radius: 6px; font-weight: 600; cursor: pointer; }
</style>
</head>
<body>
<div class="box">
  <h1>Nesshub</h1>
  <p>Upload a Nessus export (.nessus) to generate a report.</p>
  <form action="/generate" method="post" enctype="multipart/form-data">
    <label for="file">Scan export</label>
    <input type="file" id="file" name="file" accept=".nessus" required>
    <label for="report_name">Report name</label>
    <input type="text" id="report_name" name="report_name" placeholder="Nessus Assessment">
    <label for="customer">Customer</label>
    <input type="text" id="customer" name="customer">
    <label for="scan_date">Scan date</label>
    <input type="text" id="scan_date" name="scan_date" placeholder="2026-01-31">
    <button type="submit">Generate report</button>
  </form>
</div>
</body>
</html>
`))

// errorPage renders non-JSON error responses.
var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Error {{ .StatusCode }}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; background: #efefef; color: #263746; }
  .box { max-width: 520px; margin: 80px auto; background: #fff; border-radius: 8px; padding: 32px; box-shadow: 0 1px 4px rgba(38,55,70,.2); }
  h1 { color: #B90E0A; margin-top: 0; }
  a { color: #4DA1A9; }
</style>
</head>
<body>
<div class="box">
  <h1>Error {{ .StatusCode }}</h1>
  <p>{{ .Message }}</p>
  <p><a href="/">Back to upload</a></p>
</div>
</body>
</html>
`))
