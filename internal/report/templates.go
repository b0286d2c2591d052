package report

import "html/template"

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
 <head>
  <meta charset="utf-8">
  <title>Project Code Complexity Reports</title>
  <style>
    body { font-family: Arial, sans-serif; text-align: center; margin: 0; padding: 0; }
    h2 { margin-top: 20px; }
    ul {
        list-style-type: none;
        padding: 0;
        display: grid;
        grid-template-columns: repeat(4, 1fr);
        gap: 10px;
        max-width: 80%;
        margin: 0 auto;
    }
    li { margin: 10px 0; }
    a { text-decoration: none; }
    .report-button {
        display: inline-block;
        padding: 15px 25px;
        margin: 5px;
        background-color: #007BFF;
        color: white;
        border: none;
        border-radius: 5px;
        cursor: pointer;
        width: 100%;
        text-align: center;
        font-size: 16px;
        box-sizing: border-box;
    }
    .report-button:hover { background-color: #0056b3; }
    .report-button-missing { background-color: #999; }
    .report-button-missing:hover { background-color: #777; }
    footer { margin-top: 20px; font-size: 12px; color: #555; }
    @media screen and (max-width: 1000px) { ul { grid-template-columns: repeat(3, 1fr); } }
    @media screen and (max-width: 600px) { ul { grid-template-columns: repeat(2, 1fr); } }
    @media screen and (max-width: 400px) { ul { grid-template-columns: 1fr; } }
  </style>
 </head>
 <body>
    <h2>Project Code Complexity Reports</h2>
    <ul>
{{- range .Modules}}
      <li><a href="{{.Href}}"><button class="report-button{{if .Missing}} report-button-missing{{end}}">{{.Name}}</button></a></li>
{{- end}}
    </ul>
    <footer>
        Generated by {{.Footer.Generator}} (run {{.Footer.RunID}}) configured with {{.Footer.Config}}
    </footer>
 </body>
</html>
`))

var missingTemplate = template.Must(template.New("missing").Parse(`<!DOCTYPE html>
<html>
 <head>
  <meta charset="utf-8">
  <title>Missing Code Complexity Report</title>
  <style>
    body { font-family: Arial, sans-serif; text-align: center; margin: 0; padding: 0; }
    h2 { margin-top: 20px; }
    p { font-size: 16px; }
    footer { margin-top: 20px; font-size: 12px; color: #555; }
  </style>
 </head>
 <body>
    <h2>Missing Code Complexity Report for This Module</h2>
    <p>
        A Code Complexity Metrics (CCMR) report has not been generated for this module. Please check if the
        <strong>ccmr</strong> target is being executed for this module or if it is properly configured to generate the report.
    </p>
    <footer>
        Generated by {{.Generator}} (run {{.RunID}}) configured with {{.Config}}
    </footer>
 </body>
</html>
`))
