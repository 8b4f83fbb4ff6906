package ingest

// DemoHTML is shown when no document is given.
const DemoHTML = `<!DOCTYPE html>
<html>
<head><title>tabfilter demo</title></head>
<body>
<table id="staff">
  <caption>Staff directory</caption>
  <thead>
    <tr><th>Name</th><th>Team</th><th>Office</th><th>Level</th><th>Started</th></tr>
  </thead>
  <tbody>
    <tr><td>John</td><td>Platform</td><td>Lisbon</td><td>Senior</td><td>2019</td></tr>
    <tr><td>Anne</td><td>Payments</td><td>Berlin</td><td>Staff</td><td>2016</td></tr>
    <tr><td>Ravi</td><td>Platform</td><td>Berlin</td><td>Junior</td><td>2023</td></tr>
    <tr><td>Mei</td><td>Search</td><td>Lisbon</td><td>Senior</td><td>2020</td></tr>
    <tr><td>Tomas</td><td>Payments</td><td>Lisbon</td><td>Junior</td><td>2022</td></tr>
    <tr><td>Aisha</td><td>Search</td><td>Berlin</td><td>Staff</td><td>2015</td></tr>
    <tr><td>Lucas</td><td>Platform</td><td>Remote</td><td>Senior</td><td>2018</td></tr>
    <tr><td>Hana</td><td>Payments</td><td>Remote</td><td>Senior</td><td>2021</td></tr>
    <tr><td>Omar</td><td>Search</td><td>Lisbon</td><td>Junior</td><td>2024</td></tr>
    <tr><td>Sofia</td><td>Platform</td><td>Berlin</td><td>Staff</td><td>2017</td></tr>
  </tbody>
</table>
</body>
</html>
`
